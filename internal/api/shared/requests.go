package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps the size of a decoded request body.
const MaxBodyBytes = 100 << 10

var (
	// ErrInvalidJSON is returned when the body is not valid JSON for the target.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrBodyTooLarge is returned when the body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeJSON decodes the request body into v.
//
// An empty body leaves v untouched and is not an error. Syntax errors, type
// mismatches and trailing data are reported as ErrInvalidJSON; oversized
// bodies as ErrBodyTooLarge.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return classifyDecodeError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
		}
		return classifyDecodeError(err)
	}

	return nil
}

func classifyDecodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}
