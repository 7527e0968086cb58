package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/domain"
)

// Body decoding messages.
const (
	MsgInvalidJSON  = "Invalid JSON body"
	MsgBodyTooLarge = "Request body too large"
)

// decodeBody decodes the JSON request body into v, converting decoding
// failures into BadRequest errors.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := shared.DecodeJSON(w, r, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrBodyTooLarge):
		return domain.NewBadRequest(MsgBodyTooLarge, err)
	default:
		return domain.NewBadRequest(MsgInvalidJSON, err)
	}
}

// pathID returns the {id} path parameter. Its format is checked by the
// gateway, since each gateway has its own id format.
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
