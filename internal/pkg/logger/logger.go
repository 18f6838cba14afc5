// Package logger provides a global, Sugared Zap logger with optional
// OpenTelemetry integration. Log calls take a context so that entries
// emitted inside a traced operation carry the trace and span ids.
package logger

import (
	"context"
	"os"
	"sync"

	"github.com/gabapcia/blockpulse/internal/pkg/telemetry"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// logger is the global SugaredLogger. It discards everything until Init runs.
	logger = zap.NewNop().Sugar()

	initOnce sync.Once
)

type config struct {
	level string
	name  string
}

// Option configures the logger before initialization.
type Option func(*config)

// WithLevel sets the minimum log level ("debug", "info", "warn", "error", ...).
func WithLevel(l string) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithName sets the instrumentation scope used by the OpenTelemetry bridge.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// Init configures the global logger. By default it writes JSON to stdout at
// the "info" level. When telemetry registered a LoggerProvider, entries are
// also forwarded through the otelzap bridge. Only the first successful call
// has any effect.
func Init(opts ...Option) error {
	cfg := config{level: "info", name: "blockpulse"}
	for _, opt := range opts {
		opt(&cfg)
	}

	level, err := zapcore.ParseLevel(cfg.level)
	if err != nil {
		return err
	}

	initOnce.Do(func() {
		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				level,
			),
		}

		if lp := telemetry.LoggerProvider(); lp != nil {
			cores = append(cores, otelzap.NewCore(cfg.name, otelzap.WithLoggerProvider(lp)))
		}

		logger = zap.New(zapcore.NewTee(cores...)).Sugar()
	})

	return nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	return logger.Sync()
}

// fromContext returns the global logger enriched with the span found in ctx, if any.
func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return logger
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	return logger.With("trace.id", sc.TraceID().String(), "span.id", sc.SpanID().String())
}

// Debug logs a debug-level message with optional key/value context.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with optional key/value context.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Infow(msg, keysAndValues...)
}

// Warn logs a warn-level message with optional key/value context.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with optional key/value context.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Errorw(msg, keysAndValues...)
}

// Fatal logs a fatal-level message and exits the process.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Fatalw(msg, keysAndValues...)
}
