package service

import (
	"context"

	"github.com/spec-kit/request-portal/internal/cache"
	"github.com/spec-kit/request-portal/internal/config"
	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/repository"
	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// StatsService serves the analyst dashboard aggregates through the read
// cache. The stats entry is global; any ticket write invalidates it.
type StatsService struct {
	tickets  repository.TicketRepository
	store    *cache.Store
	cacheCfg config.CacheConfig
}

// NewStatsService builds the service.
func NewStatsService(tickets repository.TicketRepository, store *cache.Store, cacheCfg config.CacheConfig) *StatsService {
	return &StatsService{tickets: tickets, store: store, cacheCfg: cacheCfg}
}

// Dashboard returns ticket counts by status, type and priority. Analyst only.
func (s *StatsService) Dashboard(ctx context.Context, caller *domain.User) (*domain.DashboardStats, error) {
	if caller == nil || !caller.IsAnalyst {
		return nil, apperrors.NewForbidden("analyst role required")
	}

	var cached domain.DashboardStats
	if s.store.Get(ctx, cache.StatsKey, &cached) {
		return &cached, nil
	}

	stats, err := s.tickets.DashboardStats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.store.Set(ctx, cache.StatsKey, stats, s.cacheCfg.StatsTTL())
	return stats, nil
}
