package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var created, assigned []Event

	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		assigned = append(assigned, e)
		return nil
	})

	ctx := context.Background()
	if err := d.Publish(ctx, Event{Type: EventTicketCreated, TicketID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := d.Publish(ctx, Event{Type: EventTicketStatusChanged, TicketID: 1}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}

	if len(created) != 1 || created[0].TicketID != 1 {
		t.Errorf("created handler saw %d events", len(created))
	}
	if len(assigned) != 0 {
		t.Errorf("assigned handler saw %d events, want 0", len(assigned))
	}
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()
	var delivered int

	d.Subscribe(EventTicketCommentAdded, func(context.Context, Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventTicketCommentAdded, func(context.Context, Event) error {
		delivered++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCommentAdded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if delivered != 1 {
		t.Errorf("second handler not reached after first errored")
	}
}
