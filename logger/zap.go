package logger

import (
	"go.uber.org/zap"

	"smr"
)

// Zap wraps a zap.Logger to implement smr.Logger.
type Zap struct {
	logger *zap.Logger
}

// NewZap creates a smr.Logger from a zap.Logger.
func NewZap(logger *zap.Logger) smr.Logger {
	return &Zap{logger: logger}
}

// Error logs an error message with key-value pairs.
func (z *Zap) Error(msg string, args ...any) {
	z.logger.Sugar().Errorw(msg, args...)
}

// Warn logs a warning message with key-value pairs.
func (z *Zap) Warn(msg string, args ...any) {
	z.logger.Sugar().Warnw(msg, args...)
}

// Info logs an info message with key-value pairs.
func (z *Zap) Info(msg string, args ...any) {
	z.logger.Sugar().Infow(msg, args...)
}

// Sync flushes any buffered log entries, satisfying smr.Syncer. smr.Destruct
// calls this if the installed Logger implements it, so a Warn logged by
// help_scan just before teardown isn't left sitting in zap's buffer.
func (z *Zap) Sync() error {
	return z.logger.Sync()
}
