package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"TRACE", zapcore.DebugLevel},
		{" warn ", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func TestConsoleLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, zapcore.InfoLevel, false)
	l.Debug("hidden")
	l.Info("Report written", zap.String("path", "out.xml"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "Report written")
	assert.Contains(t, out, `"path": "out.xml"`)
	assert.NotContains(t, out, "\033[")
}

func TestConsoleLoggerColour(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewConsoleLogger(&buf, zapcore.InfoLevel, true).Warn("careful")
	assert.Contains(t, buf.String(), ColouredLevel(zapcore.WarnLevel))
}

func TestGetLogFileWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "ccnetlog.log")
	w, err := GetLogFileWriter(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestGenerateTraceID(t *testing.T) {
	t.Parallel()
	id := GenerateTraceID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, GenerateTraceID())
}

func TestLogCommandLifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
		level   zapcore.Level
	}{
		{"success", nil, "Command completed", zapcore.DebugLevel},
		{"failure", errors.New("boom"), "Command failed", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			done := LogCommandLifecycle(zap.New(core), "ccnetlog convert", zap.Strings("args", []string{"-e", "x"}))
			err := tt.err
			done(&err)

			entries := logs.All()
			require.Len(t, entries, 2)
			assert.Equal(t, "Command started", entries[0].Message)
			assert.Equal(t, []any{"-e", "x"}, entries[0].ContextMap()["args"])
			assert.Equal(t, tt.wantMsg, entries[1].Message)
			assert.Equal(t, tt.level, entries[1].Level)
			assert.Equal(t, "ccnetlog convert", entries[1].ContextMap()["command"])
		})
	}
}

func TestNewFallbackLogger(t *testing.T) {
	t.Setenv(LevelEnv, "error")
	l := NewFallbackLogger()
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}
