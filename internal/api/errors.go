package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/domain"
)

// NotFoundMessage is the body message for unmatched routes and methods.
const NotFoundMessage = "Resource not found"

// StatusForKind maps an error kind to its HTTP status code.
// The mapping is total; unknown kinds are 500.
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToStatusCode maps any error to an HTTP status code. Errors that
// are not a *domain.Error are internal failures.
func MapErrorToStatusCode(err error) int {
	return StatusForKind(domain.KindOf(err))
}

// GetSafeErrorMessage returns the message that may be shown to the caller.
// Internal failures never expose their message.
func GetSafeErrorMessage(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal || de.Message == "" {
		return shared.GenericErrorMessage
	}
	return de.Message
}

// HandleAPIError is the single place failure responses are written. It logs
// the failure with its redacted detail and responds with the mapped status
// and safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	shared.RespondWithErrorAndLog(
		w,
		r,
		StatusForKind(kind),
		GetSafeErrorMessage(err),
		err,
		slog.String("kind", kind.String()),
	)
}

// NotFoundHandler answers unmatched routes and unsupported methods.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, NotFoundMessage)
}
