package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-portal/internal/auth"
	"github.com/spec-kit/request-portal/internal/service"
	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// NotificationsHandler serves the analyst new-ticket alert counter.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// Unseen GET /notifications/unseen. Each call reports tickets created since
// the session's previous observation and advances the baseline.
func (h *NotificationsHandler) Unseen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	count, err := h.notifications.Unseen(c.Context(), principal.User, principal.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"new_tickets": count}})
}
