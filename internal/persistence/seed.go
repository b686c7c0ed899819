package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/request-portal/internal/auth"
	"github.com/spec-kit/request-portal/internal/config"
	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/repository"
)

// SeedAccounts creates the first-run accounts when absent: an analyst able to
// triage and manage roles, and a plain end-user for exercising the
// non-analyst path. Existing accounts are left untouched.
func SeedAccounts(ctx context.Context, users repository.UserRepository, cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := seedUser(ctx, users, bcryptCost, logger, &domain.User{
		Username:   cfg.AdminUsername,
		Email:      cfg.AdminEmail,
		FullName:   cfg.AdminFullName,
		Department: cfg.Department,
		IsAnalyst:  true,
	}, cfg.AdminPassword); err != nil {
		return err
	}

	if cfg.SampleUsername == "" {
		return nil
	}
	return seedUser(ctx, users, bcryptCost, logger, &domain.User{
		Username:   cfg.SampleUsername,
		Email:      cfg.SampleEmail,
		FullName:   cfg.SampleFullName,
		Department: cfg.Department,
		IsAnalyst:  false,
	}, cfg.SamplePassword)
}

func seedUser(ctx context.Context, users repository.UserRepository, bcryptCost int, logger *zap.Logger, account *domain.User, password string) error {
	if _, err := users.GetByUsername(ctx, account.Username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}
	account.PasswordHash = hash

	if err := users.Create(ctx, account); err != nil {
		// Concurrent boot already created it.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil
		}
		return err
	}
	logger.Info("seeded account",
		zap.String("username", account.Username),
		zap.Bool("is_analyst", account.IsAnalyst))
	return nil
}
