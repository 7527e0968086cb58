package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/users-api/internal/platform/logger"
)

// ErrorHandler writes the response for a failed request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// PanicError is the error handed to the ErrorHandler for a recovered panic.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recoverer converts handler panics into a call to handle, so a panicking
// request still receives exactly one error response.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recoverer(handle ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// ALLOW-PANIC: net/http relies on this sentinel to abort the response
					panic(rec)
				}

				stack := debug.Stack()
				logger.FromContext(r.Context()).Error("recovered from panic",
					"panic", fmt.Sprint(rec),
					"stack", string(stack))

				handle(w, r, &PanicError{Value: rec, Stack: stack})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
