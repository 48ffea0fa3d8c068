package handlers

import (
	"errors"
	"net/http"

	"github.com/davryn/identity-service/internal/application"
)

// statusFor maps workflow errors to HTTP status codes so storage and
// mail failures (5xx class) stay distinct from domain rejections.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrResetTokenInvalid):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrDuplicateEmail),
		errors.Is(err, application.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, application.ErrHardDeleteUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, application.ErrEventDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
