package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, log)
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Info("booking approved", "booking_id", "b-1")

	output := buf.String()
	assert.Contains(t, output, "booking approved")
	assert.Contains(t, output, "b-1")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Error("test error")

	assert.Contains(t, buf.String(), "test error")
	assert.Contains(t, buf.String(), "ERROR")
}

func TestDebugFilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Debug("hidden")
	assert.Empty(t, buf.String())

	log = New(NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Debugf("visible %d", 1)
	assert.Contains(t, buf.String(), "visible 1")
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Infof("session %s ended", "s-9")

	assert.Contains(t, buf.String(), "session s-9 ended")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	WithError(assert.AnError).Info("notification dropped")

	output := buf.String()
	assert.Contains(t, output, "notification dropped")
	assert.Contains(t, output, assert.AnError.Error())
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	WithFields(map[string]interface{}{"key1": "value1", "key2": 123}).Info("test with fields")

	output := buf.String()
	assert.Contains(t, output, "test with fields")
	assert.Contains(t, output, "key1")
	assert.Contains(t, output, "value1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("whatever"))
}
