package service

import (
	"context"
	"testing"

	"github.com/spec-kit/request-portal/internal/config"
	"github.com/spec-kit/request-portal/internal/domain"
)

func TestUnseenBaselinePerSession(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", "Alice Martin", false)
	carol := env.addUser("carol", "Carol Diaz", true)
	svc := NewNotificationService(env.svc, nil, nil)
	ctx := context.Background()

	if _, err := env.svc.Create(ctx, alice, validInput(env.clock)); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("analyst only", func(t *testing.T) {
		_, err := svc.Unseen(ctx, alice, "session-a")
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("first observation is zero", func(t *testing.T) {
		unseen, err := svc.Unseen(ctx, carol, "session-c")
		if err != nil {
			t.Fatalf("unseen: %v", err)
		}
		if unseen != 0 {
			t.Errorf("first observation = %d, want 0", unseen)
		}
	})

	t.Run("new tickets reported once", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if _, err := env.svc.Create(ctx, alice, validInput(env.clock)); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
		unseen, err := svc.Unseen(ctx, carol, "session-c")
		if err != nil {
			t.Fatalf("unseen: %v", err)
		}
		if unseen != 2 {
			t.Errorf("unseen = %d, want 2", unseen)
		}
		unseen, _ = svc.Unseen(ctx, carol, "session-c")
		if unseen != 0 {
			t.Errorf("repeat = %d, want 0", unseen)
		}
	})

	t.Run("another session has its own baseline", func(t *testing.T) {
		unseen, err := svc.Unseen(ctx, carol, "session-c2")
		if err != nil {
			t.Fatalf("unseen: %v", err)
		}
		if unseen != 0 {
			t.Errorf("fresh session = %d, want 0", unseen)
		}
	})
}

func TestDashboard(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", "Alice Martin", false)
	carol := env.addUser("carol", "Carol Diaz", true)
	svc := NewStatsService(env.tickets, nil, config.CacheConfig{})
	ctx := context.Background()

	inputs := []struct {
		ticketType domain.TicketType
		priority   domain.TicketPriority
		status     domain.TicketStatus
	}{
		{domain.TicketTypePowerBIReport, domain.TicketPriorityHigh, domain.TicketStatusNew},
		{domain.TicketTypePowerBIReport, domain.TicketPriorityNormal, domain.TicketStatusInProgress},
		{domain.TicketTypeDataAnalysis, domain.TicketPriorityHigh, domain.TicketStatusDone},
	}
	for _, row := range inputs {
		input := validInput(env.clock)
		input.Type = row.ticketType
		input.Priority = row.priority
		ticket, err := env.svc.Create(ctx, alice, input)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if row.status != domain.TicketStatusNew {
			if _, err := env.svc.Triage(ctx, carol, ticket.ID, TriageInput{Status: row.status}); err != nil {
				t.Fatalf("triage: %v", err)
			}
		}
	}

	t.Run("analyst only", func(t *testing.T) {
		_, err := svc.Dashboard(ctx, alice)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("aggregates", func(t *testing.T) {
		stats, err := svc.Dashboard(ctx, carol)
		if err != nil {
			t.Fatalf("dashboard: %v", err)
		}
		if stats.Total != 3 || stats.New != 1 || stats.InProgress != 1 || stats.Completed != 1 {
			t.Errorf("status counts = total %d new %d in_progress %d completed %d",
				stats.Total, stats.New, stats.InProgress, stats.Completed)
		}
		if stats.ByType[domain.TicketTypePowerBIReport] != 2 ||
			stats.ByType[domain.TicketTypeDataAnalysis] != 1 {
			t.Errorf("type breakdown = %v", stats.ByType)
		}
		if stats.ByPriority[domain.TicketPriorityHigh] != 2 ||
			stats.ByPriority[domain.TicketPriorityNormal] != 1 {
			t.Errorf("priority breakdown = %v", stats.ByPriority)
		}
	})
}
