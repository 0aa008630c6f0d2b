package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/middleware"
	"hackhub/internal/service"
)

// TeamHandler handles team endpoints.
type TeamHandler struct {
	teamService service.TeamService
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeamRequest represents a team creation request.
type CreateTeamRequest struct {
	Name       string `json:"name" validate:"required"`
	EventID    string `json:"eventId" validate:"required"`
	MaxMembers int    `json:"maxMembers" validate:"omitempty,min=1"`
}

// UpdateTeamRequest represents a team update request.
type UpdateTeamRequest struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"maxMembers" validate:"omitempty,min=1"`
}

// InviteRequest invites a user to the team by contact address.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Create godoc
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTeamRequest true "Team data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams [post]
func (h *TeamHandler) Create(c echo.Context) error {
	var req CreateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	eventID, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid event id",
			Code:  "INVALID_ID",
		})
	}

	team, err := h.teamService.Create(c.Request().Context(), middleware.CurrentUser(c), service.CreateTeamInput{
		Name:       req.Name,
		EventID:    eventID,
		MaxMembers: req.MaxMembers,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "team created successfully",
		"team":    team,
	})
}

// List godoc
// @Summary List teams
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /teams [get]
func (h *TeamHandler) List(c echo.Context) error {
	teams, err := h.teamService.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(teams),
		"teams": teams,
	})
}

// Get godoc
// @Summary Get a team with populated references
// @Tags teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	team, err := h.teamService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"team": team})
}

// Update godoc
// @Summary Update a team (leader only)
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body UpdateTeamRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id} [put]
func (h *TeamHandler) Update(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	team, err := h.teamService.Update(c.Request().Context(), middleware.CurrentUser(c), id, service.UpdateTeamInput{
		Name:       req.Name,
		MaxMembers: req.MaxMembers,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "team updated successfully",
		"team":    team,
	})
}

// Delete godoc
// @Summary Delete a team (leader only)
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.teamService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "team deleted successfully"})
}

// Join godoc
// @Summary Join a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /teams/{id}/join [post]
func (h *TeamHandler) Join(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	team, err := h.teamService.Join(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "joined team successfully",
		"team":    team,
	})
}

// Leave godoc
// @Summary Leave a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /teams/{id}/leave [post]
func (h *TeamHandler) Leave(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.teamService.Leave(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "left team successfully"})
}

// Invite godoc
// @Summary Invite a user to the team by email (leader only)
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body InviteRequest true "Invitee email"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /teams/{id}/invite [post]
func (h *TeamHandler) Invite(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.teamService.Invite(c.Request().Context(), middleware.CurrentUser(c), id, req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "invitation sent successfully"})
}
