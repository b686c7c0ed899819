package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/request-portal/internal/cache"
	"github.com/spec-kit/request-portal/internal/config"
	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/events"
	"github.com/spec-kit/request-portal/internal/repository"
	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation and validation,
// creator edits, analyst triage, visibility-scoped listing and the comment
// threads.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	store      *cache.Store
	cacheCfg   config.CacheConfig
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	CacheStore  *cache.Store
	CacheConfig config.CacheConfig
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		store:      deps.CacheStore,
		cacheCfg:   deps.CacheConfig,
		now:        time.Now,
	}
}

// TicketInput carries the creator-editable content fields. The same payload
// serves creation and edits; edits replace all fields atomically.
type TicketInput struct {
	Title                 string
	Description           string
	Type                  domain.TicketType
	Category              domain.TicketCategory
	Priority              domain.TicketPriority
	BusinessJustification string
	ExpectedDelivery      time.Time
	DataSources           string
	TechnicalRequirements string
	EstimatedHours        int32
}

// TriageInput carries the analyst-only mutation: status, assignment and
// actual hours are applied together, mirroring the triage form.
type TriageInput struct {
	Status      domain.TicketStatus
	AssigneeID  *int64
	ActualHours *int32
}

// ListFilter composes with logical AND; an empty dimension matches
// everything. AssigneeID is available to analysts only. PageSize zero
// disables pagination; Page is 1-based.
type ListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	TitleQuery string
	AssigneeID *int64
	Page       int
	PageSize   int
}

// Create validates the payload and persists a new ticket in status NEW,
// creator = caller, unassigned.
func (s *TicketService) Create(ctx context.Context, caller *domain.User, input TicketInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	normalized, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	creatorID := caller.ID
	ticket := &domain.Ticket{
		Title:                 normalized.Title,
		Description:           normalized.Description,
		Type:                  normalized.Type,
		Category:              normalized.Category,
		Priority:              normalized.Priority,
		Status:                domain.TicketStatusNew,
		BusinessJustification: normalized.BusinessJustification,
		ExpectedDelivery:      normalized.ExpectedDelivery,
		DataSources:           normalized.DataSources,
		TechnicalRequirements: normalized.TechnicalRequirements,
		CreatedByID:           &creatorID,
		EstimatedHours:        hoursOrNil(normalized.EstimatedHours),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.CreatedByName = caller.FullName

	s.invalidateAfterWrite(ctx, caller.ID, ticket.ID)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Type:     ticket.Type,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Edit replaces the content fields of a ticket. Only the creator may edit,
// and only while the ticket is still in NEW; afterwards the ticket is locked
// for its creator. Either every field applies or none does.
func (s *TicketService) Edit(ctx context.Context, caller *domain.User, ticketID int64, input TicketInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	normalized, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.CreatedBy(caller.ID) {
		return nil, apperrors.NewForbidden("only the ticket creator may edit it")
	}
	if ticket.Status != domain.TicketStatusNew {
		return nil, apperrors.NewTicketLocked()
	}

	ticket.Title = normalized.Title
	ticket.Description = normalized.Description
	ticket.Type = normalized.Type
	ticket.Category = normalized.Category
	ticket.Priority = normalized.Priority
	ticket.BusinessJustification = normalized.BusinessJustification
	ticket.ExpectedDelivery = normalized.ExpectedDelivery
	ticket.DataSources = normalized.DataSources
	ticket.TechnicalRequirements = normalized.TechnicalRequirements
	ticket.EstimatedHours = hoursOrNil(normalized.EstimatedHours)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateAfterWrite(ctx, caller.ID, ticket.ID)
	return ticket, nil
}

// Triage applies the analyst mutation: any status from any status (the
// transition graph is intentionally free, DONE and REJECTED are not enforced
// terminal), assignment to an analyst or nobody, and actual hours.
func (s *TicketService) Triage(ctx context.Context, caller *domain.User, ticketID int64, input TriageInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !caller.IsAnalyst {
		return nil, apperrors.NewForbidden("only analysts may change status, assignee or hours")
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewInvalidEnumValue("status", string(input.Status))
	}
	if input.ActualHours != nil && *input.ActualHours < 0 {
		return nil, apperrors.NewValidationError("actual_hours must not be negative", nil)
	}

	var assigneeName string
	if input.AssigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *input.AssigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user", map[string]any{"user_id": *input.AssigneeID})
			}
			return nil, apperrors.MapError(err)
		}
		if !assignee.IsAnalyst {
			return nil, apperrors.NewInvalidAssignee(assignee.ID)
		}
		assigneeName = assignee.FullName
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssignedToID
	ticket.Status = input.Status
	ticket.AssignedToID = input.AssigneeID
	ticket.AssignedToName = assigneeName
	ticket.ActualHours = input.ActualHours

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateAfterWrite(ctx, caller.ID, ticket.ID)

	if oldStatus != ticket.Status {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if !sameAssignee(oldAssignee, ticket.AssignedToID) {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload:  events.TicketAssignedPayload{AssigneeID: ticket.AssignedToID},
		})
	}
	return ticket, nil
}

// List returns the tickets the caller may see, newest first. Analysts see
// every ticket; other callers only their own. Filters AND together.
func (s *TicketService) List(ctx context.Context, caller *domain.User, filter ListFilter) ([]domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if filter.AssigneeID != nil && !caller.IsAnalyst {
		return nil, apperrors.NewForbidden("assignee filter is analyst only")
	}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewInvalidEnumValue("status", string(status))
		}
	}
	for _, priority := range filter.Priorities {
		if !priority.Valid() {
			return nil, apperrors.NewInvalidEnumValue("priority", string(priority))
		}
	}
	if filter.Page < 0 || filter.PageSize < 0 {
		return nil, apperrors.NewValidationError("page and page_size must not be negative", nil)
	}

	key := cache.TicketListKey(caller.ID, filterFingerprint(caller, filter))
	var cached []domain.Ticket
	if s.store.Get(ctx, key, &cached) {
		return cached, nil
	}

	tickets, err := s.tickets.ListForCaller(ctx, caller.ID, caller.IsAnalyst)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := applyFilter(tickets, filter)
	sortTickets(result)
	result = paginate(result, filter.Page, filter.PageSize)

	s.store.Set(ctx, key, result, s.cacheCfg.ListTTL())
	return result, nil
}

// Get returns one ticket with its visible comment thread. Non-analysts may
// only open tickets they created and never see internal comments.
func (s *TicketService) Get(ctx context.Context, caller *domain.User, ticketID int64) (*domain.Ticket, []domain.Comment, error) {
	if caller == nil {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !caller.IsAnalyst && !ticket.CreatedBy(caller.ID) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}

	thread, err := s.loadThread(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, visibleComments(thread, caller.IsAnalyst), nil
}

// AddComment appends to a ticket's thread. The thread is append-only;
// comments are immutable once created. Internal comments are analyst only,
// both to write and to read.
func (s *TicketService) AddComment(ctx context.Context, caller *domain.User, ticketID int64, body string, isInternal bool) (*domain.Comment, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}
	if isInternal && !caller.IsAnalyst {
		return nil, apperrors.NewForbidden("internal comments are analyst only")
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAnalyst && !ticket.CreatedBy(caller.ID) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorID:   caller.ID,
		Body:       body,
		IsInternal: isInternal,
		AuthorName: caller.FullName,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.store.Invalidate(ctx, cache.ThreadKey(ticket.ID))

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:  comment.ID,
			IsInternal: comment.IsInternal,
		},
	})
	return comment, nil
}

// Count returns the current total ticket count, the notification counter's
// observation input.
func (s *TicketService) Count(ctx context.Context) (int64, error) {
	count, err := s.tickets.Count(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

func (s *TicketService) getTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) loadThread(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	key := cache.ThreadKey(ticketID)
	var cached []domain.Comment
	if s.store.Get(ctx, key, &cached) {
		return cached, nil
	}
	thread, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.store.Set(ctx, key, thread, s.cacheCfg.ThreadTTL())
	return thread, nil
}

// validateInput checks required fields and enumerations before anything is
// persisted, so a failing edit leaves no intermediate state behind.
func (s *TicketService) validateInput(input TicketInput) (TicketInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.BusinessJustification = strings.TrimSpace(input.BusinessJustification)
	input.DataSources = strings.TrimSpace(input.DataSources)
	input.TechnicalRequirements = strings.TrimSpace(input.TechnicalRequirements)

	if input.Title == "" || input.Description == "" || input.BusinessJustification == "" {
		return input, apperrors.NewValidationError("title, description and business_justification are required", nil)
	}
	if !input.Type.Valid() {
		return input, apperrors.NewInvalidEnumValue("ticket_type", string(input.Type))
	}
	if !input.Category.Valid() {
		return input, apperrors.NewInvalidEnumValue("category", string(input.Category))
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityNormal
	}
	if !input.Priority.Valid() {
		return input, apperrors.NewInvalidEnumValue("priority", string(input.Priority))
	}
	if input.ExpectedDelivery.IsZero() {
		return input, apperrors.NewValidationError("expected_delivery is required", nil)
	}
	if dateOnly(input.ExpectedDelivery).Before(dateOnly(s.now())) {
		return input, apperrors.NewValidationError("expected_delivery must not be in the past", nil)
	}
	if input.EstimatedHours < 0 {
		return input, apperrors.NewValidationError("estimated_hours must not be negative", nil)
	}
	return input, nil
}

func (s *TicketService) invalidateAfterWrite(ctx context.Context, callerID, ticketID int64) {
	s.store.InvalidatePrefix(ctx, cache.TicketListPrefix(callerID))
	s.store.Invalidate(ctx, cache.StatsKey, cache.ThreadKey(ticketID))
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func applyFilter(tickets []domain.Ticket, filter ListFilter) []domain.Ticket {
	query := strings.ToLower(strings.TrimSpace(filter.TitleQuery))
	result := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(ticket.Title), query) {
			continue
		}
		if filter.AssigneeID != nil && !sameAssignee(filter.AssigneeID, ticket.AssignedToID) {
			continue
		}
		result = append(result, ticket)
	}
	return result
}

// paginate slices one 1-based page out of the sorted result. A zero pageSize
// returns everything.
func paginate(tickets []domain.Ticket, page, pageSize int) []domain.Ticket {
	if pageSize == 0 {
		return tickets
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(tickets) {
		return []domain.Ticket{}
	}
	end := start + pageSize
	if end > len(tickets) {
		end = len(tickets)
	}
	return tickets[start:end]
}

func sortTickets(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if !tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		}
		return tickets[i].ID > tickets[j].ID
	})
}

func visibleComments(thread []domain.Comment, isAnalyst bool) []domain.Comment {
	if isAnalyst {
		return thread
	}
	visible := make([]domain.Comment, 0, len(thread))
	for _, comment := range thread {
		if comment.IsInternal {
			continue
		}
		visible = append(visible, comment)
	}
	return visible
}

func filterFingerprint(caller *domain.User, filter ListFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "analyst=%t;", caller.IsAnalyst)
	for _, status := range filter.Statuses {
		fmt.Fprintf(&b, "s=%s;", status)
	}
	for _, priority := range filter.Priorities {
		fmt.Fprintf(&b, "p=%s;", priority)
	}
	fmt.Fprintf(&b, "q=%s;", strings.ToLower(strings.TrimSpace(filter.TitleQuery)))
	if filter.AssigneeID != nil {
		fmt.Fprintf(&b, "a=%d;", *filter.AssigneeID)
	}
	if filter.PageSize > 0 {
		fmt.Fprintf(&b, "pg=%d,%d;", filter.Page, filter.PageSize)
	}
	return b.String()
}

func containsStatus(set []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range set {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(set []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, candidate := range set {
		if candidate == priority {
			return true
		}
	}
	return false
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func hoursOrNil(hours int32) *int32 {
	if hours <= 0 {
		return nil
	}
	return &hours
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
