package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/probtex/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("probtex", config.Log{Level: "debug", JSON: true}, &buf)
	require.NoError(t, err)

	logger.Debug("rendered", "bytes", 42)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rendered", line["@message"])
	assert.Equal(t, "probtex", line["@module"])
	assert.Equal(t, float64(42), line["bytes"])
}

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("probtex", config.Log{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewUnknownLevel(t *testing.T) {
	_, err := New("probtex", config.Log{Level: "loud"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log level")
}
