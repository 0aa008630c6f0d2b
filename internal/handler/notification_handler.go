package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hackhub/internal/middleware"
	"hackhub/internal/service"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// @Summary List the authenticated user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	notifications, err := h.notificationService.List(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), id, middleware.CurrentUser(c).ID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notificationService.MarkAllRead(c.Request().Context(), middleware.CurrentUser(c).ID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
