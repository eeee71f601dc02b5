// Package logger builds the structured loggers used throughout Ignite.
// Every subsystem receives a *zap.SugaredLogger through its Config struct
// rather than reaching for a package-level global, so tests can inject a
// silent or observed logger without touching process-wide state.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-mode, JSON-encoded logger tagged with the given
// service name, suitable for the top-level pkg/ignite.Instance and cmd/ignite
// entry points.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Logger construction failing means the process can't observe
		// itself; fall back to an unbuffered stderr logger rather than
		// leaving subsystems with a nil logger.
		fallback := zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			zapcore.InfoLevel,
		))
		return fallback.Sugar().Named(service)
	}

	return log.Sugar().Named(service)
}

// NewNop returns a logger that discards everything, for tests that need a
// valid *zap.SugaredLogger but don't care about its output.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
