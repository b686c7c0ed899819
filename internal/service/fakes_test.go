package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/repository"
)

// In-memory repository fakes. They mimic the Postgres-backed implementations
// closely enough for service behavior: copies in and out, pgx.ErrNoRows on
// misses, a monotonic clock so creation timestamps are distinct and ordered.

type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		step: time.Minute,
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

type memUserRepo struct {
	mu      sync.Mutex
	seq     int64
	users   map[int64]*domain.User
	clock   *fakeClock
	tickets *memTicketRepo
	cmts    *memCommentRepo
}

func newMemUserRepo(clock *fakeClock) *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User), clock: clock}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = r.clock.Tick()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memUserRepo) ListAnalysts(_ context.Context) ([]domain.User, error) {
	all, _ := r.List(context.Background())
	var result []domain.User
	for _, user := range all {
		if user.IsAnalyst {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *memUserRepo) SetRole(_ context.Context, id int64, isAnalyst bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsAnalyst = isAnalyst
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	r.mu.Unlock()

	if r.tickets != nil {
		r.tickets.anonymizeUser(id)
	}
	if r.cmts != nil {
		r.cmts.removeByAuthor(id)
	}
	return nil
}

type memTicketRepo struct {
	mu      sync.Mutex
	seq     int64
	tickets map[int64]*domain.Ticket
	clock   *fakeClock
}

func newMemTicketRepo(clock *fakeClock) *memTicketRepo {
	return &memTicketRepo{tickets: make(map[int64]*domain.Ticket), clock: clock}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = r.seq
	now := r.clock.Tick()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.clock.Tick()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *memTicketRepo) ListForCaller(_ context.Context, callerID int64, isAnalyst bool) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if !isAnalyst && !ticket.CreatedBy(callerID) {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *memTicketRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tickets)), nil
}

func (r *memTicketRepo) DashboardStats(_ context.Context) (*domain.DashboardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.DashboardStats{
		ByType:     make(map[domain.TicketType]int64),
		ByPriority: make(map[domain.TicketPriority]int64),
	}
	for _, ticket := range r.tickets {
		stats.Total++
		switch ticket.Status {
		case domain.TicketStatusNew:
			stats.New++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusDone:
			stats.Completed++
		}
		stats.ByType[ticket.Type]++
		stats.ByPriority[ticket.Priority]++
	}
	return stats, nil
}

func (r *memTicketRepo) anonymizeUser(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.CreatedByID != nil && *ticket.CreatedByID == userID {
			ticket.CreatedByID = nil
			ticket.CreatedByName = ""
		}
		if ticket.AssignedToID != nil && *ticket.AssignedToID == userID {
			ticket.AssignedToID = nil
			ticket.AssignedToName = ""
		}
	}
}

type memCommentRepo struct {
	mu       sync.Mutex
	seq      int64
	comments []domain.Comment
	clock    *fakeClock
}

func newMemCommentRepo(clock *fakeClock) *memCommentRepo {
	return &memCommentRepo{clock: clock}
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = r.seq
	comment.CreatedAt = r.clock.Tick()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *memCommentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *memCommentRepo) removeByAuthor(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.comments[:0]
	for _, comment := range r.comments {
		if comment.AuthorID != userID {
			kept = append(kept, comment)
		}
	}
	r.comments = kept
}

// testEnv bundles a wired service set over the fakes.
type testEnv struct {
	clock    *fakeClock
	users    *memUserRepo
	tickets  *memTicketRepo
	comments *memCommentRepo
	svc      *TicketService
}

func newTestEnv() *testEnv {
	clock := newFakeClock()
	users := newMemUserRepo(clock)
	tickets := newMemTicketRepo(clock)
	comments := newMemCommentRepo(clock)
	users.tickets = tickets
	users.cmts = comments

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
		UserRepo:    users,
	})
	svc.now = clock.Now

	return &testEnv{clock: clock, users: users, tickets: tickets, comments: comments, svc: svc}
}

func (e *testEnv) addUser(username, fullName string, analyst bool) *domain.User {
	user := &domain.User{
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		FullName:     fullName,
		Department:   "Operations",
		IsAnalyst:    analyst,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func validInput(clock *fakeClock) TicketInput {
	return TicketInput{
		Title:                 "Monthly load factor report",
		Description:           "Automate the monthly load factor extract",
		Type:                  domain.TicketTypePowerBIReport,
		Category:              domain.TicketCategoryOperational,
		Priority:              domain.TicketPriorityNormal,
		BusinessJustification: "Manual preparation takes two days each month",
		ExpectedDelivery:      clock.Now().AddDate(0, 0, 14),
	}
}
