package main

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/squidpickles/bipbuffer/internal/config"
)

// newLogger builds a zap logger: development encoder for console output,
// production encoder for json.
func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	switch strings.ToLower(lc.Format) {
	case "json":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	zc.Level = zap.NewAtomicLevelAt(parseLogLevel(lc.Level))
	return zc.Build()
}

// parseLogLevel parses the log level string
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
