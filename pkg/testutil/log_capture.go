// Package testutil provides shared test helpers: log capture and assertion
// utilities used across the command and package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chartci/chartci/pkg/log"
)

// CaptureLogOutput redirects log output during testFunc and returns the
// captured content. The original output and log level are restored after
// testFunc completes, even on panic.
//
// Example:
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    log.Info("This will be captured")
//	})
//	require.NoError(t, err)
//	assert.Contains(t, output, "This will be captured")
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	var panicErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	return logBuf.String(), panicErr
}

// CaptureJSONLogs captures log output in JSON format, parses each line, and
// returns the raw output plus the parsed entries. LOG_FORMAT is forced to
// "json" for the duration and restored afterwards.
func CaptureJSONLogs(logLevel log.Level, testFunc func()) (logOutput string, parsedLogs []map[string]interface{}, err error) {
	originalLogFormat := os.Getenv("LOG_FORMAT")
	if setErr := os.Setenv("LOG_FORMAT", "json"); setErr != nil {
		err = fmt.Errorf("failed to set LOG_FORMAT=json: %w", setErr)
		return
	}
	defer func() {
		if restoreErr := os.Setenv("LOG_FORMAT", originalLogFormat); restoreErr != nil {
			log.Error("failed to restore LOG_FORMAT", "originalValue", originalLogFormat, "error", restoreErr)
		}
	}()

	originalLevel := log.CurrentLevel()
	var logBuf bytes.Buffer
	// SetOutput rebuilds the handler, picking up the LOG_FORMAT change.
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	var panicErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	logOutput = logBuf.String()
	if panicErr != nil {
		err = panicErr
		return
	}

	if strings.TrimSpace(logOutput) == "" {
		return
	}

	for i, line := range strings.Split(strings.TrimSpace(logOutput), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if unmarshalErr := json.Unmarshal([]byte(line), &entry); unmarshalErr != nil {
			err = fmt.Errorf("failed to unmarshal log line %d as JSON: %w\nLine content: %s", i+1, unmarshalErr, line)
			return
		}
		parsedLogs = append(parsedLogs, entry)
	}
	return
}

// AssertLogContainsJSON asserts that at least one captured log entry contains
// every key-value pair in expectedLog.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expectedLog map[string]interface{}) {
	t.Helper()
	for _, logEntry := range logs {
		if containsAll(logEntry, expectedLog) {
			return
		}
	}

	var logBuffer bytes.Buffer
	encoder := json.NewEncoder(&logBuffer)
	encoder.SetIndent("", "  ")
	for _, entry := range logs {
		_ = encoder.Encode(entry)
	}
	expectedLogJSON, _ := json.MarshalIndent(expectedLog, "", "  ")
	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s",
		string(expectedLogJSON), logBuffer.String())
}

// AssertLogDoesNotContainJSON asserts that no captured log entry contains
// every key-value pair in unexpectedLog.
func AssertLogDoesNotContainJSON(t *testing.T, logs []map[string]interface{}, unexpectedLog map[string]interface{}) {
	t.Helper()
	for _, logEntry := range logs {
		if containsAll(logEntry, unexpectedLog) {
			foundEntryJSON, _ := json.MarshalIndent(logEntry, "", "  ")
			unexpectedLogJSON, _ := json.MarshalIndent(unexpectedLog, "", "  ")
			assert.Fail(t, "Unexpected log entry found",
				"Found log entry:\n%s\n\nUnexpected log containing:\n%s",
				string(foundEntryJSON), string(unexpectedLogJSON))
			return
		}
	}
}

// containsAll reports whether actual contains every key-value pair from
// expected. JSON numbers decode as float64, so numeric expectations are
// compared through float64.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, expectedValue := range expected {
		actualValue, ok := actual[key]
		if !ok {
			return false
		}

		switch actualVal := actualValue.(type) {
		case float64:
			switch expectedVal := expectedValue.(type) {
			case float64:
				if actualVal != expectedVal {
					return false
				}
			case int:
				if actualVal != float64(expectedVal) {
					return false
				}
			case int64:
				if actualVal != float64(expectedVal) {
					return false
				}
			default:
				return false
			}
		default:
			if actualValue != expectedValue {
				return false
			}
		}
	}
	return true
}
