package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

var errPanic = errors.New("internal server error")

// Recovery middleware recovers from panics and logs the error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				zerolog.Ctx(r.Context()).Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")

				writeError(w, http.StatusInternalServerError, errPanic)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
