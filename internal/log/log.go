// Package log wraps zap with context-aware logging.
//
// All entry points take a context first so that hooks can attach
// per-operation fields (trace id, operation name) to every record.
package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var global = newLogger(DefaultConfig())

// Init replaces the process logger with one built from cfg.
func Init(cfg Config) {
	global = newLogger(cfg)
}

func newLogger(cfg Config) *zap.Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	if cfg.File.Path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Sync flushes buffered records. Call on shutdown.
func Sync() error {
	return global.Sync()
}

// Debug logs a debug record with hook fields from ctx.
func Debug(ctx context.Context, msg string, fields ...Field) {
	global.Debug(msg, withHookFields(ctx, msg, fields)...)
}

// Info logs an info record with hook fields from ctx.
func Info(ctx context.Context, msg string, fields ...Field) {
	global.Info(msg, withHookFields(ctx, msg, fields)...)
}

// Warn logs a warn record with hook fields from ctx.
func Warn(ctx context.Context, msg string, fields ...Field) {
	global.Warn(msg, withHookFields(ctx, msg, fields)...)
}

// Error logs an error record with hook fields from ctx.
func Error(ctx context.Context, msg string, fields ...Field) {
	global.Error(msg, withHookFields(ctx, msg, fields)...)
}

// Fatal logs the record and exits the process. Reserved for startup failures.
func Fatal(ctx context.Context, msg string, fields ...Field) {
	global.Fatal(msg, withHookFields(ctx, msg, fields)...)
}

func withHookFields(ctx context.Context, msg string, fields []Field) []Field {
	for _, hook := range hooks {
		fields = append(fields, hook.Apply(ctx, msg)...)
	}

	return fields
}
