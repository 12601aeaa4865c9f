package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/domain"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New creates a new zerolog logger writing to stdout.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	output := w

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	return zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Str("service", "treasury").
		Logger()
}

// WithContext returns log enriched with the request id and actor carried by
// ctx, attached to ctx so zerolog.Ctx finds it downstream.
func WithContext(ctx context.Context, log zerolog.Logger) context.Context {
	lc := log.With()
	if id := domain.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if actor, ok := domain.ActorFromContext(ctx); ok {
		lc = lc.Str("actor_id", actor.ID).Str("actor_role", string(actor.Role))
	}
	enriched := lc.Logger()
	return enriched.WithContext(ctx)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
