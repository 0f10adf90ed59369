// Package logging wires up the zap logger shared by every subsystem.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once sync.Once
	l    *zap.Logger
)

// L returns the process-wide logger, building a sane production config the
// first time it's called. Every package that needs to log pulls from here
// rather than constructing its own zap.Logger.
func L() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = ""
		built, err := cfg.Build()
		if err != nil {
			// zap itself failed to construct — fall back to a no-op logger
			// rather than panic, since logging must never take the store down.
			built = zap.NewNop()
		}
		l = built
	})
	return l
}

// Set overrides the shared logger, used by tests that want to assert on
// log output or silence it entirely.
func Set(logger *zap.Logger) {
	l = logger
	once.Do(func() {})
}
