package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stellate-proxy/splitcache/internal/logging"
)

func TestNewWriterFormatsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewWriter(&buf)

	l.Warn("failed to parse manifest", "error", "boom")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "warn failed to parse manifest"))
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "boom")
}

func TestNopDiscardsOutput(t *testing.T) {
	// Nop must be safe to call with no observable side effects.
	logging.Nop.Debug("x")
	logging.Nop.Info("x")
	logging.Nop.Warn("x")
	logging.Nop.Error("x")
}
