// Package logging contains the diagnostic logging logic for logsim
package logging

import (
	"fmt"
	"os"
	"strings"

	simconfig "github.com/logsim/logsim/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a new Logger for the specified config.
// If the config is empty, it defaults to stderr at info level.
// Diagnostics never go to stdout; stdout carries the record stream.
func NewLogger(cfg simconfig.Logging) (*zap.Logger, error) {
	level := parseZapLevel(cfg.Level)

	// Only stderr supported for now. Default to stderr when empty.
	output := strings.TrimSpace(strings.ToLower(cfg.Type))
	if output == "" {
		output = simconfig.LoggingTypeStderr
	}
	if output != simconfig.LoggingTypeStderr {
		return nil, fmt.Errorf("unknown output type: %s", cfg.Type)
	}

	core := newStderrCore(level)
	return zap.New(core), nil
}

func parseZapLevel(level simconfig.LogLevel) zapcore.Level {
	switch strings.ToLower(string(level)) {
	case string(simconfig.LogLevelDebug):
		return zapcore.DebugLevel
	case string(simconfig.LogLevelWarn):
		return zapcore.WarnLevel
	case string(simconfig.LogLevelError):
		return zapcore.ErrorLevel
	case string(simconfig.LogLevelInfo):
		fallthrough
	case "":
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}

func newStderrCore(level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stderr), level)
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
