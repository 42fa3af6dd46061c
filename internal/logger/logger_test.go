package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Info("Reconciler", "slot loaded: dataset=%s", "RIPS")
	assert.Empty(t, buf.String())

	l.Warn("Reconciler", "snapshot unreadable: slot=%s", "rips")
	assert.Contains(t, buf.String(), "[WARN] [Reconciler] snapshot unreadable: slot=rips")
}

func TestLoggerWithoutComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Debug("", "plain")
	assert.Contains(t, buf.String(), "[DEBUG] plain")
	assert.NotContains(t, buf.String(), "[] ")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Info("Any", "ignored") })
}
