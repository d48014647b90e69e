// Package logging builds the application logger: console output, optionally
// teed into a JSON log file for long-running installs.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the logger. When logFile is non-empty the console core is
// teed with a JSON file core appending to that path. The returned cleanup
// flushes buffers and closes the file.
func New(debug bool, logFile string) (*zap.Logger, func(), error) {
	base, err := newBase(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	if logFile == "" {
		return base, func() { _ = base.Sync() }, nil
	}

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(file), level)
	logger := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))

	cleanup := func() {
		_ = logger.Sync()
		_ = file.Close()
	}
	return logger, cleanup, nil
}

func newBase(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
