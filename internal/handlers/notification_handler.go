package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"vehicle-insurance-service/internal/httputil"
	"vehicle-insurance-service/internal/repository"
)

type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

func (h *NotificationHandler) Register(app *fiber.App) {
	group := app.Group("/notifications")

	group.Get("/user/:userId", h.GetUserNotifications) // GET /notifications/user/:userId
	group.Get("/audit", h.GetAuditLogs)                // GET /notifications/audit
}

// GetUserNotifications retrieves a user's notifications, newest first
func (h *NotificationHandler) GetUserNotifications(c fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badParam(c, "user ID")
	}

	notifications, err := h.notificationRepo.GetByUser(c.Context(), userID)
	if err != nil {
		slog.Error("Failed to get notifications", "user_id", userID, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	}))
}

// GetAuditLogs retrieves recent audit entries
func (h *NotificationHandler) GetAuditLogs(c fiber.Ctx) error {
	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return badParam(c, "limit")
		}
		limit = parsed
	}

	entries, err := h.notificationRepo.GetAuditLogs(c.Context(), limit)
	if err != nil {
		slog.Error("Failed to get audit logs", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"audit_logs": entries,
		"count":      len(entries),
	}))
}
