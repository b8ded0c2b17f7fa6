// Package logger provides adapters for popular logger libraries to work with smr's Logger interface.
//
// The adapters allow you to use your existing logger with smr without writing boilerplate.
// Note that the standard library's slog.Logger already implements smr.Logger directly.
//
// Example with zap:
//
//	import (
//	    "smr"
//	    "smr/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    smr.Construct(16, smr.WithLogger(logger.NewZap(zapLogger)))
//	    defer smr.Destruct(false)
//	}
package logger
