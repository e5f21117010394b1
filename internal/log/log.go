package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultLogger = zap.NewNop()

func Get() *zap.Logger {
	return defaultLogger
}

// New builds a logger writing to stderr. stdout stays free for command
// output and the MCP stdio transport. format is "console" or "json".
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      lvl == zapcore.DebugLevel,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if format == "json" {
		cfg.Encoding = "json"
		cfg.EncoderConfig = zap.NewProductionEncoderConfig()
	}
	return cfg.Build()
}

// Set replaces the process-wide logger returned by Get.
func Set(level, format string) error {
	logger, err := New(level, format)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

func Flush() {
	_ = defaultLogger.Sync()
}
