// Package middleware holds the authentication middlewares layered on top of
// the JWT route guard: loading the current user and enforcing role and
// verification requirements.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hackhub/internal/auth"
	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/repository"
)

const currentUserKey = "currentUser"

// LoadUser resolves the authenticated user from the validated JWT claims and
// stores it on the context. It must run after the JWT guard.
func LoadUser(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user loaded by LoadUser, or nil outside protected
// routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}

// RequireOrganizer rejects requests from non-organizer accounts.
func RequireOrganizer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || user.Role != model.RoleOrganizer {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "organizer role required",
				Code:  "ORGANIZER_REQUIRED",
			})
		}
		return next(c)
	}
}

// RequireVerifiedEmail rejects requests from accounts that have not verified
// their email address.
func RequireVerifiedEmail(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.IsEmailVerified {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrEmailNotVerified.Error(),
				Code:  "EMAIL_NOT_VERIFIED",
			})
		}
		return next(c)
	}
}
