package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"hackhub/internal/mail"
)

// ContactHandler handles the public contact form endpoint.
type ContactHandler struct {
	mailer mail.Mailer
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(mailer mail.Mailer) *ContactHandler {
	return &ContactHandler{mailer: mailer}
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Submit godoc
// @Summary Submit the contact form
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact form"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	go func() {
		if err := h.mailer.SendContactEmail(req.Name, req.Email, req.Message); err != nil {
			log.Error().Err(err).Str("email", req.Email).Msg("failed to deliver contact email")
		}
	}()

	return c.JSON(http.StatusOK, map[string]string{"message": "message sent successfully"})
}
