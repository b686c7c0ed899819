package dto

import (
	"time"

	"github.com/spec-kit/request-portal/internal/domain"
)

// CreateTicketRequest is the submission payload for a new request. The same
// shape serves content edits, which replace every field.
type CreateTicketRequest struct {
	Title                 string `json:"title"`
	Description           string `json:"description"`
	TicketType            string `json:"ticket_type"`
	Category              string `json:"category"`
	Priority              string `json:"priority"`
	BusinessJustification string `json:"business_justification"`
	ExpectedDelivery      string `json:"expected_delivery"` // YYYY-MM-DD
	DataSources           string `json:"data_sources"`
	TechnicalRequirements string `json:"technical_requirements"`
	EstimatedHours        int32  `json:"estimated_hours"`
}

// TriageTicketRequest is the analyst mutation payload.
type TriageTicketRequest struct {
	Status      string `json:"status"`
	AssigneeID  *int64 `json:"assignee_id"`
	ActualHours *int32 `json:"actual_hours"`
}

// CreateCommentRequest appends to a ticket thread.
type CreateCommentRequest struct {
	Body       string `json:"body"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID                    int64      `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	TicketType            string     `json:"ticket_type"`
	Category              string     `json:"category"`
	Priority              string     `json:"priority"`
	Status                string     `json:"status"`
	BusinessJustification string     `json:"business_justification"`
	ExpectedDelivery      string     `json:"expected_delivery"`
	DataSources           string     `json:"data_sources,omitempty"`
	TechnicalRequirements string     `json:"technical_requirements,omitempty"`
	CreatedByID           *int64     `json:"created_by_id"`
	CreatedByName         string     `json:"created_by_name,omitempty"`
	AssignedToID          *int64     `json:"assigned_to_id"`
	AssignedToName        string     `json:"assigned_to_name,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	EstimatedHours        *int32     `json:"estimated_hours"`
	ActualHours           *int32     `json:"actual_hours"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticket_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketDetailResponse bundles a ticket with its visible thread.
type TicketDetailResponse struct {
	Ticket   TicketResponse    `json:"ticket"`
	Comments []CommentResponse `json:"comments"`
}

// TicketOptionsResponse enumerates the closed option lists for form pickers.
type TicketOptionsResponse struct {
	Types      []domain.TicketType     `json:"types"`
	Categories []domain.TicketCategory `json:"categories"`
	Priorities []domain.TicketPriority `json:"priorities"`
	Statuses   []domain.TicketStatus   `json:"statuses"`
}

// FromTicket maps a domain ticket to its response view.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                    ticket.ID,
		Title:                 ticket.Title,
		Description:           ticket.Description,
		TicketType:            string(ticket.Type),
		Category:              string(ticket.Category),
		Priority:              string(ticket.Priority),
		Status:                string(ticket.Status),
		BusinessJustification: ticket.BusinessJustification,
		ExpectedDelivery:      ticket.ExpectedDelivery.Format("2006-01-02"),
		DataSources:           ticket.DataSources,
		TechnicalRequirements: ticket.TechnicalRequirements,
		CreatedByID:           ticket.CreatedByID,
		CreatedByName:         ticket.CreatedByName,
		AssignedToID:          ticket.AssignedToID,
		AssignedToName:        ticket.AssignedToName,
		CreatedAt:             ticket.CreatedAt,
		UpdatedAt:             ticket.UpdatedAt,
		EstimatedHours:        ticket.EstimatedHours,
		ActualHours:           ticket.ActualHours,
	}
}

// FromComment maps a domain comment to its response view.
func FromComment(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Body:       comment.Body,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
	}
}
