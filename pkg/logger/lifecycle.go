/* pkg/logger/lifecycle.go */

package logger

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateTraceID returns a short 8-char trace ID.
func GenerateTraceID() string {
	return uuid.New().String()[:8]
}

// LogCommandLifecycle logs the start of cmdName on log (or L() when nil) and
// returns a deferred function that logs how it ended.
func LogCommandLifecycle(log *zap.Logger, cmdName string, fields ...zap.Field) func(err *error) {
	if log == nil {
		log = L()
	}
	start := time.Now()
	log.Debug("Command started", append([]zap.Field{zap.String("command", cmdName)}, fields...)...)

	return func(err *error) {
		duration := time.Since(start)
		if err != nil && *err != nil {
			log.Error("Command failed", zap.String("command", cmdName), zap.Duration("duration", duration), zap.Error(*err))
		} else {
			log.Debug("Command completed", zap.String("command", cmdName), zap.Duration("duration", duration))
		}
	}
}
