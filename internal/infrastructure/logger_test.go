package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentdesk/internal/config"
)

func TestInitializeLogger_WritesJSONToFile(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("sheet fetched", "sheet", "INDENT")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
	assert.Equal(t, "sheet fetched", entry["msg"])
	assert.Equal(t, "INDENT", entry["sheet"])
	assert.Equal(t, "INFO", entry["level"])

	again, err := InitializeLogger(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.Same(t, logger, again, "only the first call configures the logger")
}

func TestTraceHandler_InjectsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, config.LoggingConfig{Level: "debug", Format: "json"})

	ctx := WithUsername(WithTraceID(context.Background(), "trace-42"), "store.keeper")
	logger.InfoContext(ctx, "indent approved")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-42", entry["trace_id"])
	assert.Equal(t, "store.keeper", entry["username"])
}

func TestLogger_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	logger.Info("login attempt",
		"username", "meena",
		"password", "hunter2",
		"token", "eyJhbGciOi",
		"sheet", "USER")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "eyJhbGciOi")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "[REDACTED]", entry["password"])
	assert.Equal(t, "meena", entry["username"])
	assert.Equal(t, "USER", entry["sheet"])
}

func TestTraceHandler_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, config.LoggingConfig{Level: "warn", Format: "text"})

	logger.Info("hidden")
	logger.With("component", "cache").Warn("redis slow")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "component=cache"))
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"verbose": "INFO",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, parseLogLevel(input).String())
		})
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing id is kept")
}
