package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware assigns a request id, attaches a request-scoped logger
// to the context and logs every completed request.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware.
func NewLoggingMiddleware(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap wraps an http.Handler with logging.
func (m *LoggingMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := domain.ContextWithRequestID(r.Context(), requestID)
		ctx = logger.WithContext(ctx, m.logger.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger())
		r = r.WithContext(ctx)

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log := zerolog.Ctx(ctx)
		event := log.Info()
		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			event = log.Error()
		case wrapped.statusCode >= http.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Int("status", wrapped.statusCode).
			Int("bytes", wrapped.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}
