package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hackhub/internal/middleware"
	"hackhub/internal/service"
)

// MessageHandler handles team chat endpoints.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest represents a chat message send request.
type SendMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Send godoc
// @Summary Send a message to a team chat
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chatID, err := primitive.ObjectIDFromHex(req.ChatID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat id")
	}

	msg, err := h.messageService.Send(c.Request().Context(), middleware.CurrentUser(c), chatID, req.Content)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"data": msg})
}

// History godoc
// @Summary List messages in a team chat
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Router /messages/{chatId} [get]
func (h *MessageHandler) History(c echo.Context) error {
	chatID, err := objectIDParam(c, "chatId")
	if err != nil {
		return err
	}

	messages, err := h.messageService.History(c.Request().Context(), middleware.CurrentUser(c), chatID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": messages})
}

// Conversations godoc
// @Summary List the authenticated user's team conversations
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /messages/conversations [get]
func (h *MessageHandler) Conversations(c echo.Context) error {
	conversations, err := h.messageService.Conversations(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": conversations})
}

// MarkRead godoc
// @Summary Mark a message as read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.messageService.MarkRead(c.Request().Context(), id); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "message marked as read"})
}
