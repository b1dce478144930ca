// Package logging builds the structured JSON logger stockroom writes to its
// log file and reads recent entries back for the activity view.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLevel = "info"

// Field names used by the encoder and by Tail when parsing lines back.
const (
	timeKey    = "timestamp"
	levelKey   = "severity"
	messageKey = "message"
	loggerKey  = "logger"
	callerKey  = "caller"
)

// New returns a JSON logger appending to path. The TUI owns stdout, so an
// empty path yields a no-op logger rather than writing to the terminal.
// The returned func flushes buffered entries.
func New(path, level string) (*zap.Logger, func(), error) {
	if strings.TrimSpace(path) == "" {
		return zap.NewNop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil || strings.TrimSpace(level) == "" {
		_ = lvl.UnmarshalText([]byte(defaultLevel))
	}

	cfg := zap.Config{
		Level:             lvl,
		Encoding:          "json",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
		DisableStacktrace: true,
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey: messageKey,
		TimeKey:    timeKey,
		LevelKey:   levelKey,
		NameKey:    loggerKey,
		CallerKey:  callerKey,
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}
