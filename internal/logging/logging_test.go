package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	if toFile {
		t.Skip("logging redirected to REPORTER_LOG_FILE")
	}
	var buf bytes.Buffer
	prev := Output()
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })
	return &buf
}

func TestHoldReplaysOnRelease(t *testing.T) {
	buf := useBuffer(t)

	release := Hold()
	assert.NotSame(t, buf, Output())

	Log.Info().Msg("first held line")
	Scanner.Warn().Str("path", "a.txt").Msg("second held line")
	assert.Zero(t, buf.Len(), "held output must not reach the terminal")

	release()
	assert.Same(t, buf, Output())
	out := buf.String()
	assert.Contains(t, out, "first held line")
	assert.Contains(t, out, "second held line")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("first")), bytes.Index(buf.Bytes(), []byte("second")))

	// Releasing twice does not replay again
	release()
	assert.Equal(t, out, buf.String())
}

func TestSetOutput(t *testing.T) {
	buf := useBuffer(t)

	Log.Info().Str("run", "r1").Msg("hello")
	require.NotZero(t, buf.Len())
	assert.Contains(t, buf.String(), `"run":"r1"`)
}
