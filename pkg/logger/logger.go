// pkg/logger/logger.go

package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// L returns the process logger. It is a no-op logger until one of the
// Initialize functions runs.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger installs l as both the package logger and zap's global logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	log = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
}

// Sync flushes any buffered log entries. Should be called before the application exits.
func Sync() {
	// Syncing a console core on stderr fails with EINVAL on most platforms,
	// so the error is not worth reporting.
	_ = L().Sync()
}
