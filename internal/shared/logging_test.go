package shared

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_Levels(t *testing.T) {
	ctx := context.Background()

	logger := InitLogger("json", "debug")
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))

	logger = InitLogger("text", "error")
	assert.False(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.True(t, logger.Enabled(ctx, slog.LevelError))

	// Unknown level falls back to info.
	logger = InitLogger("json", "chatty")
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
}

func TestInitLogger_SetsDefault(t *testing.T) {
	logger := InitLogger("json", "info")
	assert.Same(t, logger, slog.Default())
}
