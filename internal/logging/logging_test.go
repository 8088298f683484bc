package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"":        log.InfoLevel,
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestParseFormatter(t *testing.T) {
	f, err := ParseFormatter("json")
	require.NoError(t, err)
	assert.Equal(t, log.JSONFormatter, f)
	f, err = ParseFormatter("")
	require.NoError(t, err)
	assert.Equal(t, log.TextFormatter, f)
	_, err = ParseFormatter("xml")
	assert.Error(t, err)
}

func TestNewWritesToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("task created", "id", "42")
	assert.Contains(t, buf.String(), `"msg":"task created"`)
	assert.Contains(t, buf.String(), `"id":"42"`)
	assert.Contains(t, buf.String(), `"prefix":"taskflow"`)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("quiet")
	assert.Empty(t, buf.String())
	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskflow.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New(Options{File: path, Format: "logfmt"}, nil)
		require.NoError(t, err)
		logger.Info(msg)
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
	assert.Contains(t, string(data), "msg=second")
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, _, err := New(Options{Level: "loud"}, nil)
	assert.Error(t, err)
	_, _, err = New(Options{Format: "yaml"}, nil)
	assert.Error(t, err)
}
