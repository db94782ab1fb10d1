package logging

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Options shapes the process logger. The console sink always writes to
// stderr; File adds a rotated JSON sink next to it.
type Options struct {
	Level       zapcore.Level
	Format      string
	File        string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Development bool
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.Mutex
	opts    = Options{Level: zapcore.InfoLevel, Format: FormatConsole}
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root    *zap.Logger
	rootSet sync.Once
)

// Configure applies o to the default logger. Sinks are fixed by the first
// DefaultLogger call; the level keeps following later calls.
func Configure(o Options) {
	mu.Lock()
	defer mu.Unlock()
	if o.Format == "" {
		o.Format = FormatConsole
	}
	opts = o
	level.SetLevel(o.Level)
}

// SetLevel changes the level of every logger derived from DefaultLogger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

func consoleEncoder(o Options) zapcore.Encoder {
	if o.Format == FormatJSON {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
	if !o.Development {
		ec.CallerKey = ""
	}
	return zapcore.NewConsoleEncoder(ec)
}

// New builds a logger for o whose level is controlled by lvl.
func New(o Options, lvl zap.AtomicLevel) *zap.Logger {
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(o), zapcore.Lock(os.Stderr), lvl),
	}
	if o.File != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    max(o.MaxSizeMB, 1),
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, lvl))
	}

	var zopts []zap.Option
	if o.Development {
		zopts = append(zopts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewTee(cores...), zopts...)
}

func DefaultLogger() *zap.Logger {
	rootSet.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		root = New(opts, level)
	})
	return root
}

// Component returns the default logger named after a subsystem.
func Component(name string) *zap.Logger {
	return DefaultLogger().Named(name)
}

func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return DefaultLogger()
}
