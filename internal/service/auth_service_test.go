package service

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/request-portal/internal/config"
)

func newAuthEnv() (*testEnv, *AuthService) {
	env := newTestEnv()
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}
	return env, NewAuthService(cfg, env.users)
}

func TestSignup(t *testing.T) {
	_, svc := newAuthEnv()
	ctx := context.Background()

	input := SignupInput{
		Username:   "  alice  ",
		Password:   "s3cret",
		Email:      "alice@example.com",
		FullName:   "Alice Martin",
		Department: "Operations",
	}
	user, err := svc.Signup(ctx, input)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username not trimmed: %q", user.Username)
	}
	if user.IsAnalyst {
		t.Errorf("signup must never grant the analyst role")
	}
	if user.PasswordHash == "s3cret" || !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Errorf("password not stored as a bcrypt hash")
	}

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Signup(ctx, input)
		assertCode(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("missing fields", func(t *testing.T) {
		bad := input
		bad.Username = "bob"
		bad.Email = ""
		_, err := svc.Signup(ctx, bad)
		assertCode(t, err, "VALIDATION_FAILED")
	})
}

func TestLogin(t *testing.T) {
	_, svc := newAuthEnv()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{
		Username: "alice",
		Password: "s3cret",
		Email:    "alice@example.com",
		FullName: "Alice Martin",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	t.Run("success issues a token", func(t *testing.T) {
		user, token, exp, err := svc.Login(ctx, "alice", "s3cret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("user = %q", user.Username)
		}
		if token == "" || exp.IsZero() {
			t.Errorf("missing token or expiry")
		}
		claims, err := svc.TokenManager().ParseToken(token)
		if err != nil {
			t.Fatalf("parse issued token: %v", err)
		}
		if claims.UserID != user.ID || claims.IsAnalyst {
			t.Errorf("claims = uid %d analyst %t", claims.UserID, claims.IsAnalyst)
		}
		if claims.ID == "" {
			t.Errorf("token has no session id")
		}
	})

	t.Run("distinct logins get distinct session ids", func(t *testing.T) {
		_, first, _, err := svc.Login(ctx, "alice", "s3cret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		_, second, _, err := svc.Login(ctx, "alice", "s3cret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		a, _ := svc.TokenManager().ParseToken(first)
		b, _ := svc.TokenManager().ParseToken(second)
		if a.ID == b.ID {
			t.Errorf("session ids must differ per login")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "alice", "wrong")
		assertCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown username indistinguishable from wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody", "s3cret")
		assertCode(t, err, "INVALID_CREDENTIALS")
	})
}
