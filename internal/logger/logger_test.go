package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	log.Debug().Str("student", "6300001").Msg("validated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "6300001", line["student"])
	assert.Equal(t, "validated", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewLevels(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, New(tc.level, "json", &bytes.Buffer{}).GetLevel(), "level %q", tc.level)
	}
}

func TestNewConsoleFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "console", &buf)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("propagation did not converge")
	assert.Contains(t, buf.String(), "WRN")
	assert.Contains(t, buf.String(), "propagation did not converge")
}
