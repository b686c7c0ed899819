package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 60)

	token, exp, err := tm.GenerateToken(42, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if exp.IsZero() {
		t.Errorf("missing expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || !claims.IsAnalyst {
		t.Errorf("claims = uid %d analyst %t", claims.UserID, claims.IsAnalyst)
	}
	if claims.ID == "" {
		t.Errorf("token id empty, session scoping broken")
	}
}

func TestTokenUniqueIDPerIssue(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 60)

	first, _, err := tm.GenerateToken(1, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, _, err := tm.GenerateToken(1, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	a, err := tm.ParseToken(first)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := tm.ParseToken(second)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("token ids must be unique per issue")
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(7, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Errorf("token signed with another secret accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("password stored in clear")
	}
	if err := ComparePassword(hash, "s3cret"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Errorf("wrong password accepted")
	}
}
