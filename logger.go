package borsh

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
	defaultCodec.Store(New(Options{}))
}

// Logger returns the package logger.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger configures the package logger. Codecs created afterwards
// without their own logger use it; the default codec is rebuilt.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
	defaultCodec.Store(New(Options{}))
}
