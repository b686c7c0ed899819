package persistence

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/request-portal/internal/auth"
	"github.com/spec-kit/request-portal/internal/config"
	"github.com/spec-kit/request-portal/internal/domain"
)

type seedUserStore struct {
	byName map[string]*domain.User
	seq    int64
}

func newSeedUserStore() *seedUserStore {
	return &seedUserStore{byName: make(map[string]*domain.User)}
}

func (s *seedUserStore) Create(_ context.Context, user *domain.User) error {
	s.seq++
	user.ID = s.seq
	s.byName[user.Username] = user
	return nil
}

func (s *seedUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := s.byName[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *seedUserStore) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *seedUserStore) List(context.Context) ([]domain.User, error)         { return nil, nil }
func (s *seedUserStore) ListAnalysts(context.Context) ([]domain.User, error) { return nil, nil }
func (s *seedUserStore) SetRole(context.Context, int64, bool) error          { return nil }
func (s *seedUserStore) Delete(context.Context, int64) error                 { return nil }

func seedConfig() config.SeedConfig {
	return config.SeedConfig{
		Enabled:        true,
		AdminUsername:  "oop_admin",
		AdminPassword:  "admin123",
		AdminEmail:     "oop-admin@example.com",
		AdminFullName:  "Portal Administrator",
		Department:     "Performance & Forecasting",
		SampleUsername: "test_user",
		SamplePassword: "test123",
		SampleEmail:    "test-user@example.com",
		SampleFullName: "Test User",
	}
}

func TestSeedAccountsFirstRun(t *testing.T) {
	store := newSeedUserStore()

	if err := SeedAccounts(context.Background(), store, seedConfig(), bcrypt.MinCost, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	admin, ok := store.byName["oop_admin"]
	if !ok || !admin.IsAnalyst {
		t.Fatalf("admin analyst not seeded")
	}
	if err := auth.ComparePassword(admin.PasswordHash, "admin123"); err != nil {
		t.Errorf("admin password not hashed from config: %v", err)
	}

	sample, ok := store.byName["test_user"]
	if !ok || sample.IsAnalyst {
		t.Fatalf("sample end-user not seeded as non-analyst")
	}
}

func TestSeedAccountsIdempotent(t *testing.T) {
	store := newSeedUserStore()
	cfg := seedConfig()
	ctx := context.Background()

	if err := SeedAccounts(ctx, store, cfg, bcrypt.MinCost, nil); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	firstHash := store.byName["oop_admin"].PasswordHash

	if err := SeedAccounts(ctx, store, cfg, bcrypt.MinCost, nil); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if store.byName["oop_admin"].PasswordHash != firstHash {
		t.Errorf("existing account rewritten on reseed")
	}
	if len(store.byName) != 2 {
		t.Errorf("reseed created extra accounts: %d", len(store.byName))
	}
}

func TestSeedAccountsDisabled(t *testing.T) {
	store := newSeedUserStore()
	cfg := seedConfig()
	cfg.Enabled = false

	if err := SeedAccounts(context.Background(), store, cfg, bcrypt.MinCost, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(store.byName) != 0 {
		t.Errorf("disabled seeding created accounts")
	}
}
