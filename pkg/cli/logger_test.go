package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false, "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log.Debug("hidden")
	log.WithField("width", 4).Info("Resampling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Resampling", entry["msg"])
	assert.EqualValues(t, 4, entry["width"])
	assert.Contains(t, entry, "time")
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false, "text")
	log.Info("Saved")
	assert.Contains(t, buf.String(), "level=info msg=Saved")
}

func TestNewLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, true, "json")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Debug logging enabled")
	assert.NotContains(t, buf.String(), "{")
}
