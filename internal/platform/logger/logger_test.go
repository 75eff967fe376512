package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"invalid falls back to info", "verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.True(t, log.Enabled(context.Background(), tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, log.Enabled(context.Background(), tt.want-1))
			}
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	def := slog.New(slog.NewTextHandler(io.Discard, nil))
	carried := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Same(t, def, logger.FromContextOrDefault(context.Background(), def))

	ctx := logger.WithContext(context.Background(), carried)
	assert.Same(t, carried, logger.FromContextOrDefault(ctx, def))

	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
}
