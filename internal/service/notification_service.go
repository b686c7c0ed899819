package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/events"
	"github.com/spec-kit/request-portal/internal/notify"
	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// NotificationService powers the analyst new-ticket alert: a per-session
// baseline diff over the total ticket count. It also logs lifecycle events
// published by the ticket service.
type NotificationService struct {
	tickets    *TicketService
	tracker    *notify.Tracker
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(tickets *TicketService, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		tickets:    tickets,
		tracker:    notify.NewTracker(),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Unseen reports how many tickets were created since the session's previous
// observation and advances the baseline. Analyst only; the first call of a
// session establishes the baseline and reports zero.
func (n *NotificationService) Unseen(ctx context.Context, caller *domain.User, sessionID string) (int64, error) {
	if caller == nil || !caller.IsAnalyst {
		return 0, apperrors.NewForbidden("analyst role required")
	}
	current, err := n.tickets.Count(ctx)
	if err != nil {
		return 0, err
	}
	return n.tracker.Observe(sessionID, current), nil
}

// RegisterHandlers subscribes the event log to ticket lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.logEvent)
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}
