package smr

import "sync/atomic"

// Logger interface matches the implementation of slog.
// See the logger subpackage for adapter implementations of common logger
// libraries.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
}

// Syncer is implemented by loggers that buffer writes, such as
// go.uber.org/zap's Logger. Destruct checks for it after the teardown
// sweep and, if present, calls Sync so a help_scan's orphan-adoption
// warning from just before teardown isn't still sitting in a buffer when
// the process logger goes out of scope.
type Syncer interface {
	Sync() error
}

// DiscardLogger is the default logger that compiles to a no-op.
type DiscardLogger struct{}

func (d DiscardLogger) Error(string, ...any) {}

func (d DiscardLogger) Warn(string, ...any) {}

func (d DiscardLogger) Info(string, ...any) {}

// throttledLogger wraps a Logger and only forwards every nth Warn call,
// so a run of help_scan calls each adopting a different orphaned record
// (spec §4.F) doesn't flood whatever sink the caller installed. Error and
// Info pass through untouched via the embedded Logger.
type throttledLogger struct {
	Logger
	every uint64
	count atomic.Uint64
}

// withWarnThrottle wraps l so only every nth Warn call is forwarded. An
// every of 1 or less returns l unwrapped.
func withWarnThrottle(l Logger, every int) Logger {
	if every <= 1 {
		return l
	}
	return &throttledLogger{Logger: l, every: uint64(every)}
}

func (t *throttledLogger) Warn(msg string, args ...any) {
	if n := t.count.Add(1); n%t.every != 1 {
		return
	}
	t.Logger.Warn(msg, args...)
}
