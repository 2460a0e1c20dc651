// Package logger builds the zap loggers used across the service.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docissuer/internal/config"
)

// New creates a logger from configuration. Timestamps are written in loc.
func New(cfg config.LogConfig, loc *time.Location) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	switch cfg.Format {
	case "", "json", "console":
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return build(os.Stdout, cfg.Format, level, loc), nil
}

// NewWithWriter creates a JSON logger at info level writing to w.
func NewWithWriter(w io.Writer, loc *time.Location) *zap.Logger {
	return build(w, "json", zapcore.InfoLevel, loc)
}

func build(w io.Writer, format string, level zapcore.Level, loc *time.Location) *zap.Logger {
	if loc == nil {
		loc = time.UTC
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}

	var enc zapcore.Encoder
	if format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core)
}
