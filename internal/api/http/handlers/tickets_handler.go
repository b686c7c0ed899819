package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-portal/internal/api/dto"
	"github.com/spec-kit/request-portal/internal/auth"
	"github.com/spec-kit/request-portal/internal/domain"
	"github.com/spec-kit/request-portal/internal/service"
	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// TicketsHandler serves the ticket surface: submission, listing, detail,
// creator edits, analyst triage and comments.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseTicketBody(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseListQuery(c)
	if err != nil {
		return err
	}

	tickets, err := h.tickets.List(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ticket, comments, err := h.tickets.Get(c.Context(), principal.User, id)
	if err != nil {
		return err
	}
	thread := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		thread = append(thread, dto.FromComment(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		Ticket:   dto.FromTicket(ticket),
		Comments: thread,
	}})
}

// Update PUT /tickets/:id. Creator content edit, only while status is NEW.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	input, err := parseTicketBody(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Edit(c.Context(), principal.User, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Triage PATCH /tickets/:id/triage. Analyst status/assignee/hours update.
func (h *TicketsHandler) Triage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.TriageTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Triage(c.Context(), principal.User, id, service.TriageInput{
		Status:      domain.TicketStatus(req.Status),
		AssigneeID:  req.AssigneeID,
		ActualHours: req.ActualHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.AddComment(c.Context(), principal.User, id, req.Body, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromComment(comment)})
}

// Options GET /tickets/options. The closed enumerations for form pickers.
func (h *TicketsHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.TicketOptionsResponse{
		Types:      domain.AllTicketTypes,
		Categories: domain.AllTicketCategories,
		Priorities: domain.AllTicketPriorities,
		Statuses:   domain.AllTicketStatuses,
	}})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func parseTicketBody(c *fiber.Ctx) (service.TicketInput, error) {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TicketInput{}, apperrors.NewValidationError("invalid payload", nil)
	}

	var delivery time.Time
	if req.ExpectedDelivery != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpectedDelivery)
		if err != nil {
			return service.TicketInput{}, apperrors.NewValidationError("expected_delivery must be YYYY-MM-DD", nil)
		}
		delivery = parsed
	}

	return service.TicketInput{
		Title:                 req.Title,
		Description:           req.Description,
		Type:                  domain.TicketType(req.TicketType),
		Category:              domain.TicketCategory(req.Category),
		Priority:              domain.TicketPriority(req.Priority),
		BusinessJustification: req.BusinessJustification,
		ExpectedDelivery:      delivery,
		DataSources:           req.DataSources,
		TechnicalRequirements: req.TechnicalRequirements,
		EstimatedHours:        req.EstimatedHours,
	}, nil
}

func parseListQuery(c *fiber.Ctx) (service.ListFilter, error) {
	filter := service.ListFilter{TitleQuery: c.Query("q")}

	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if assigneeStr := c.Query("assignee"); assigneeStr != "" {
		assignee, err := strconv.ParseInt(assigneeStr, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid assignee", nil)
		}
		filter.AssigneeID = &assignee
	}
	filter.Page = c.QueryInt("page", 0)
	filter.PageSize = c.QueryInt("page_size", 0)
	return filter, nil
}
