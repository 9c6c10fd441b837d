// Package logging provides the sugared zap loggers used across heapsim.
package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logger type accepted by every heapsim component.
type Logger = *zap.SugaredLogger

// NullLogger returns a logger that discards all log messages.
func NullLogger() Logger {
	return zap.NewNop().Sugar()
}

// New returns a console logger writing to stderr. Debug enables phase-level output.
func New(debug bool) (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = zapcore.OmitKey
	cfg.EncoderConfig.CallerKey = zapcore.OmitKey
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build logger")
	}

	return l.Sugar(), nil
}

// Module returns a child of l named after module. A nil l yields the null logger.
func Module(l Logger, module string) Logger {
	if l == nil {
		return NullLogger()
	}

	return l.Named(module)
}
