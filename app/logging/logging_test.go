package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatters(t *testing.T) {
	dev := NewWithOutput(&bytes.Buffer{}, "toyblog", "development", "")
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)

	prod := NewWithOutput(&bytes.Buffer{}, "toyblog", "production", "")
	assert.Equal(t, logrus.InfoLevel, prod.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)
}

func TestNewLevelOverride(t *testing.T) {
	logger := NewWithOutput(&bytes.Buffer{}, "toyblog", "production", "warn")
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger = NewWithOutput(&bytes.Buffer{}, "toyblog", "production", "loud")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "toyblog", "production", "")

	LogError(logger, "store failed", errors.New("disk full"), logrus.Fields{"op": "create"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "store failed", entry["msg"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "create", entry["op"])
	assert.Equal(t, "error", entry["level"])
}
