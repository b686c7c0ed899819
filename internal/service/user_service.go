package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/repository"
	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// UserService handles account administration: listing, the analyst role
// toggle and deletion with the anonymize policy.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// List returns all accounts. Analyst only.
func (s *UserService) List(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if caller == nil || !caller.IsAnalyst {
		return nil, apperrors.NewForbidden("analyst role required")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListAnalysts returns accounts flagged analyst, for assignee pickers.
func (s *UserService) ListAnalysts(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if caller == nil || !caller.IsAnalyst {
		return nil, apperrors.NewForbidden("analyst role required")
	}
	analysts, err := s.users.ListAnalysts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return analysts, nil
}

// SetRole toggles the analyst flag on an account. The operation is
// idempotent: setting the current value writes nothing. A caller may not
// change their own role.
func (s *UserService) SetRole(ctx context.Context, caller *domain.User, userID int64, isAnalyst bool) error {
	if caller == nil || !caller.IsAnalyst {
		return apperrors.NewForbidden("analyst role required")
	}
	if caller.ID == userID {
		return apperrors.NewSelfRoleChangeForbidden()
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if target.IsAnalyst == isAnalyst {
		return nil
	}

	if err := s.users.SetRole(ctx, userID, isAnalyst); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("user role changed",
		zap.Int64("user_id", userID),
		zap.Bool("is_analyst", isAnalyst),
		zap.Int64("changed_by", caller.ID))
	return nil
}

// Delete removes an account. Tickets referencing the user as creator or
// assignee are anonymized (reference nulled), the user's comments are
// removed. Callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, userID int64) error {
	if caller == nil || !caller.IsAnalyst {
		return apperrors.NewForbidden("analyst role required")
	}
	if caller.ID == userID {
		return apperrors.NewForbidden("cannot delete your own account")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID), zap.Int64("deleted_by", caller.ID))
	return nil
}
