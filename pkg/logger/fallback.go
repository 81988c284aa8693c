/* pkg/logger/fallback.go */

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsoleLogger writes human readable entries to w.
func NewConsoleLogger(w io.Writer, level zapcore.Level, colour bool) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig(colour)),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// NewFallbackLogger is the stderr-only logger used when no log file is
// configured or the configured one cannot be opened.
func NewFallbackLogger() *zap.Logger {
	return NewConsoleLogger(os.Stderr, ParseLogLevel(os.Getenv(LevelEnv)), StderrIsTerminal())
}

// InitializeWithFallback installs a console logger on stderr, teed into a
// JSON file when CCNETLOG_LOG_FILE is set. A log file that cannot be opened
// is reported and otherwise ignored.
func InitializeWithFallback() {
	path := strings.TrimSpace(os.Getenv(FileEnv))
	if path == "" {
		SetLogger(NewFallbackLogger())
		return
	}

	writer, err := GetLogFileWriter(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not write to log file, logging to stderr only:", err)
		SetLogger(NewFallbackLogger())
		return
	}

	level := ParseLogLevel(os.Getenv(LevelEnv))
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig(StderrIsTerminal())),
		zapcore.Lock(os.Stderr),
		level,
	)
	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewTee(
		console,
		zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), writer, level),
	)
	SetLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	L().Debug("Logger initialized",
		zap.String("log_level", level.String()),
		zap.String("log_path", path),
	)
}

func DefaultConsoleEncoderConfig(colour bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if colour {
		cfg.EncodeLevel = colourLevelEncoder
	}
	return cfg
}
