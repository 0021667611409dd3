package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Info("challenge completed", Username("demo"), XPAmount(20))

	var e entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "INFO", e.Level)
	assert.Equal(t, "challenge completed", e.Message)
	assert.Equal(t, "demo", e.Fields["username"])
	assert.EqualValues(t, 20, e.Fields["xp_amount"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("dropped")
	l.Info("dropped too")
	l.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "kept")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo).With(Component("postgres"))

	l.Info("connected")
	l.Info("migrated", Operation("migrate"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"component":"postgres"`)
	}
	assert.Contains(t, lines[1], `"operation":"migrate"`)
}

func TestErrField(t *testing.T) {
	assert.Nil(t, Err(nil).Value)
	assert.Equal(t, "boom", Err(errors.New("boom")).Value)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
