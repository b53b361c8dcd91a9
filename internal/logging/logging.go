// Package logging builds the structured logger shared by every command.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLevel = "info"

// Encodings accepted by New.
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// New constructs a zap logger writing to stderr. An empty level falls back to
// LOG_LEVEL and then to info; an unparsable level also yields info.
func New(level, encoding string) (*zap.Logger, error) {
	return build(level, encoding, []string{"stderr"})
}

func build(level, encoding string, outputs []string) (*zap.Logger, error) {
	switch encoding {
	case "":
		encoding = EncodingJSON
	case EncodingJSON, EncodingConsole:
	default:
		return nil, fmt.Errorf("logging: unknown encoding %q", encoding)
	}

	cfg := zap.Config{
		Level:             parseLevel(level),
		Encoding:          encoding,
		EncoderConfig:     encoderConfig(encoding),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	return cfg.Build()
}

func parseLevel(raw string) zap.AtomicLevel {
	if strings.TrimSpace(raw) == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(raw)))); err != nil || raw == "" {
		_ = level.UnmarshalText([]byte(defaultLevel))
	}
	return level
}

func encoderConfig(encoding string) zapcore.EncoderConfig {
	if encoding == EncodingConsole {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		return cfg
	}
	return zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		NameKey:    "logger",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeDuration: zapcore.StringDurationEncoder,
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		StacktraceKey:  "stacktrace",
	}
}
