// Package log builds the process-wide logger for the command line driver.
// Library code never constructs loggers itself; it takes one injected.
package log

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a sugared production logger at the given minimum level.
// debug switches to the development config and forces the debug level. The
// LOG_LEVEL environment variable, when set to a parsable level, overrides
// both.
func NewLogger(level string, debug bool) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		lvl = zapcore.DebugLevel
	}
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if ll, perr := zapcore.ParseLevel(env); perr == nil {
			lvl = ll
		}
	}
	cfg.Level.SetLevel(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}
