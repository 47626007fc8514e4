package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", "horse_id", 7)
	out := buf.String()
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "horse_id=7")
	assert.NotContains(t, out, "\x1b[")
}
