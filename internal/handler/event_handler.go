package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hackhub/internal/middleware"
	"hackhub/internal/repository"
	"hackhub/internal/service"
)

// EventHandler handles event endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents an event creation request.
type CreateEventRequest struct {
	Title                string    `json:"title" validate:"required"`
	Description          string    `json:"description" validate:"required"`
	Image                string    `json:"image"`
	StartDate            time.Time `json:"startDate" validate:"required"`
	EndDate              time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	MaxTeamSize          int       `json:"maxTeamSize" validate:"omitempty,min=1"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	Venue                string    `json:"venue"`
	Prizes               string    `json:"prizes"`
	Rules                string    `json:"rules"`
}

// UpdateEventRequest represents an event update request.
type UpdateEventRequest struct {
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Image                string    `json:"image"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	MaxTeamSize          int       `json:"maxTeamSize" validate:"omitempty,min=1"`
	Status               string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	Venue                string    `json:"venue"`
	Prizes               string    `json:"prizes"`
	Rules                string    `json:"rules"`
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.Create(c.Request().Context(), middleware.CurrentUser(c), service.CreateEventInput{
		Title:                req.Title,
		Description:          req.Description,
		Image:                req.Image,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		MaxTeamSize:          req.MaxTeamSize,
		RegistrationDeadline: req.RegistrationDeadline,
		Venue:                req.Venue,
		Prizes:               req.Prizes,
		Rules:                req.Rules,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "event created successfully",
		"event":   event,
	})
}

// List godoc
// @Summary List events
// @Tags events
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Free-text search over title and description"
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.List(c.Request().Context(), repository.EventFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// Get godoc
// @Summary Get an event with populated references
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"event": event})
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.Update(c.Request().Context(), middleware.CurrentUser(c), id, service.UpdateEventInput{
		Title:                req.Title,
		Description:          req.Description,
		Image:                req.Image,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		MaxTeamSize:          req.MaxTeamSize,
		Status:               req.Status,
		RegistrationDeadline: req.RegistrationDeadline,
		Venue:                req.Venue,
		Prizes:               req.Prizes,
		Rules:                req.Rules,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "event updated successfully",
		"event":   event,
	})
}

// Delete godoc
// @Summary Delete an event and its teams
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "event deleted successfully"})
}

// Register godoc
// @Summary Register for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventService.Register(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "registered for event successfully"})
}

// Unregister godoc
// @Summary Unregister from an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /events/{id}/unregister [post]
func (h *EventHandler) Unregister(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventService.Unregister(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "unregistered from event successfully"})
}

// Participants godoc
// @Summary List event participants
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/participants [get]
func (h *EventHandler) Participants(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	participants, err := h.eventService.Participants(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"participants": participants})
}
