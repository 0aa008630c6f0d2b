package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEventNotFound is returned when an event is not found.
	ErrEventNotFound = errors.New("event not found")
	// ErrTeamNotFound is returned when a team is not found.
	ErrTeamNotFound = errors.New("team not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMessageNotFound is returned when a message is not found.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrTeamFull is returned when a join would exceed team capacity.
	ErrTeamFull = errors.New("team is full")
	// ErrAlreadyMember is returned when the user already belongs to the team.
	ErrAlreadyMember = errors.New("already a member of this team")
	// ErrNotMember is returned when the user does not belong to the team.
	ErrNotMember = errors.New("not a member of this team")
	// ErrLeaderCannotLeave is returned when the leader attempts to leave.
	ErrLeaderCannotLeave = errors.New("team leader cannot leave; delete the team or transfer leadership first")
	// ErrNotLeader is returned when a leader-only action is attempted by a member.
	ErrNotLeader = errors.New("only the team leader can perform this action")

	// ErrAlreadyRegistered is returned on a duplicate event registration.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrNotRegistered is returned when unregistering without a registration.
	ErrNotRegistered = errors.New("not registered for this event")

	// ErrEmailTaken is returned when the email is already used by another account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrNotOrganizer is returned when an organizer-only action is attempted.
	ErrNotOrganizer = errors.New("not authorized to manage this event")
	// ErrEmailNotVerified is returned when the action requires a verified email.
	ErrEmailNotVerified = errors.New("email address is not verified")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "EVENT_NOT_FOUND")
	case errors.Is(err, ErrTeamNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TEAM_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMessageNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MESSAGE_NOT_FOUND")
	case errors.Is(err, ErrNotificationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTIFICATION_NOT_FOUND")
	case errors.Is(err, ErrTeamFull):
		return NewHTTPError(http.StatusConflict, err.Error(), "TEAM_FULL")
	case errors.Is(err, ErrAlreadyMember):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_MEMBER")
	case errors.Is(err, ErrNotMember):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOT_MEMBER")
	case errors.Is(err, ErrLeaderCannotLeave):
		return NewHTTPError(http.StatusConflict, err.Error(), "LEADER_CANNOT_LEAVE")
	case errors.Is(err, ErrNotLeader):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_LEADER")
	case errors.Is(err, ErrAlreadyRegistered):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_REGISTERED")
	case errors.Is(err, ErrNotRegistered):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOT_REGISTERED")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrNotOrganizer):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_ORGANIZER")
	case errors.Is(err, ErrEmailNotVerified):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_NOT_VERIFIED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
