package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/treasury/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithWriterFormats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(Config{Format: "json", Level: "debug"}, &buf)
		log.Info().Str("account", "1000").Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["message"])
		assert.Equal(t, "1000", line["account"])
		assert.Equal(t, "treasury", line["service"])
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(Config{Format: "console", Level: "info"}, &buf)
		log.Info().Msg("hello")

		out := buf.String()
		assert.Contains(t, out, "hello")
		assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(Config{Format: "json", Level: "warn"}, &buf)
		log.Info().Msg("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Format: "json", Level: "info"}, &buf)

	ctx := domain.ContextWithRequestID(context.Background(), "req-1")
	ctx = domain.ContextWithActor(ctx, &domain.Actor{ID: "treasurer-1", Role: domain.RoleTreasurer})
	ctx = WithContext(ctx, base)

	zerolog.Ctx(ctx).Info().Msg("posted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "treasurer-1", line["actor_id"])
	assert.Equal(t, "treasurer", line["actor_role"])
}
