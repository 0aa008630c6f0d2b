package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/middleware"
	"hackhub/internal/service"
	"hackhub/internal/storage"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserService
	store       storage.Store
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, store storage.Store) *UserHandler {
	return &UserHandler{userService: userService, store: store}
}

// UpdateProfileRequest represents a profile update request. Pointer fields
// distinguish "leave unchanged" from "clear".
type UpdateProfileRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Bio          *string  `json:"bio"`
	Skills       []string `json:"skills"`
	GithubLink   *string  `json:"githubLink"`
	LinkedinLink *string  `json:"linkedinLink"`
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userService.GetProfile(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": profile})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.userService.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c).ID, service.UpdateProfileInput{
		Name:         req.Name,
		Email:        req.Email,
		Bio:          req.Bio,
		Skills:       req.Skills,
		GithubLink:   req.GithubLink,
		LinkedinLink: req.LinkedinLink,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "profile updated successfully",
		"user":    profile,
	})
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/upload-avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "no image provided",
			Code:  "NO_IMAGE",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "unable to read image",
			Code:  "BAD_IMAGE",
		})
	}
	defer f.Close()

	url, err := h.store.Save(fileHeader.Filename, f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "failed to store image",
			Code:  "UPLOAD_FAILED",
		})
	}

	if err := h.userService.UpdateAvatar(c.Request().Context(), middleware.CurrentUser(c).ID, url); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":        "profile picture updated successfully",
		"profilePicture": url,
	})
}

// MyEvents godoc
// @Summary List events the authenticated user participates in
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/my-events [get]
func (h *UserHandler) MyEvents(c echo.Context) error {
	events, err := h.userService.MyEvents(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}

// MyTeams godoc
// @Summary List teams the authenticated user belongs to
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/my-teams [get]
func (h *UserHandler) MyTeams(c echo.Context) error {
	teams, err := h.userService.MyTeams(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"teams": teams})
}
