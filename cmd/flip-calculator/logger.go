package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iwvelando/flip-calculator/internal/config"
	"github.com/iwvelando/flip-calculator/pkg/validation"
)

const serviceName = "flip-calculator"

// initializeLogger builds the process logger from the logging section. A
// non-empty levelOverride (the --log-level flag) wins over the configured level.
func initializeLogger(lc config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	level, err := logLevel(lc.Level, levelOverride)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	switch lc.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", lc.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.InitialFields = map[string]interface{}{
		"service": serviceName,
		"version": version,
	}

	if lc.OutputFile != "" {
		if err := prepareLogFile(lc.OutputFile); err != nil {
			return nil, err
		}
		// The tui owns the terminal, so file output replaces stderr entirely.
		zc.OutputPaths = []string{lc.OutputFile}
		zc.ErrorOutputPaths = []string{lc.OutputFile}
	}

	return zc.Build()
}

func logLevel(configured, override string) (zapcore.Level, error) {
	name := configured
	if override != "" {
		name = override
	}
	if err := validation.ValidateLogLevel(name); err != nil {
		return zapcore.InfoLevel, err
	}
	switch name {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		name = "warn"
	}
	return zapcore.ParseLevel(name)
}

// prepareLogFile creates the log directory and checks the file is writable
// before zap opens it.
func prepareLogFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f.Close()
}
