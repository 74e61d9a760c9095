package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", "debug", &buf)
	log.Debug().Str("cinema_id", "abc").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "abc", line["cinema_id"])
	assert.Equal(t, "cinema-api", line["service"])
	assert.Contains(t, line, "time")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("prod", "loud", &bytes.Buffer{}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("prod", "", &bytes.Buffer{}).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("prod", "warn", &bytes.Buffer{}).GetLevel())
}
