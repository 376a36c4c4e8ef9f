package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartci/chartci/pkg/log"
)

func TestCaptureLogOutput(t *testing.T) {
	output, err := CaptureLogOutput(log.LevelInfo, func() {
		log.Info("This is an info message")
		log.Debug("This is a debug message") // not captured at LevelInfo
	})
	assert.NoError(t, err)
	assert.Contains(t, output, "This is an info message")
	assert.NotContains(t, output, "This is a debug message")

	output, err = CaptureLogOutput(log.LevelDebug, func() {
		log.Info("This is an info message")
		log.Debug("This is a debug message")
	})
	assert.NoError(t, err)
	assert.Contains(t, output, "This is an info message")
	assert.Contains(t, output, "This is a debug message")

	// Original log level is restored.
	savedLevel := log.CurrentLevel()
	_, err = CaptureLogOutput(log.LevelDebug, func() {})
	assert.NoError(t, err)
	assert.Equal(t, savedLevel, log.CurrentLevel())
}

func TestCaptureLogOutputRecoversPanic(t *testing.T) {
	output, err := CaptureLogOutput(log.LevelInfo, func() {
		log.Info("before the panic")
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, output, "before the panic")
}

func TestCaptureJSONLogs(t *testing.T) {
	output, logs, err := CaptureJSONLogs(log.LevelDebug, func() {
		log.Info("chart packaged", "chart", "app-stack", "version", "1.2.3")
		log.Debug("details", "count", 3)
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output)
	require.Len(t, logs, 2)

	AssertLogContainsJSON(t, logs, map[string]interface{}{
		"level":   "INFO",
		"msg":     "chart packaged",
		"chart":   "app-stack",
		"version": "1.2.3",
	})
	AssertLogContainsJSON(t, logs, map[string]interface{}{
		"level": "DEBUG",
		"msg":   "details",
		"count": 3,
	})
	AssertLogDoesNotContainJSON(t, logs, map[string]interface{}{
		"msg": "never logged",
	})
}

func TestCaptureJSONLogsEmptyOutput(t *testing.T) {
	output, logs, err := CaptureJSONLogs(log.LevelInfo, func() {})
	require.NoError(t, err)
	assert.Empty(t, output)
	assert.Nil(t, logs)
}
