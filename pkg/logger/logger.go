package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

var globalLogger *Logger

// Logger wraps zap.SugaredLogger and forwards errors to an optional tracker
type Logger struct {
	*zap.SugaredLogger
	tracker errors.Tracker
}

// Init builds the global logger. Production uses the JSON encoder,
// everything else the colored console encoder.
func Init(level string, env string) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	built, err := config.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return errors.Wrap(err, "build zap logger")
	}

	globalLogger = &Logger{SugaredLogger: built.Sugar()}
	return nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// SetErrorTracker attaches a tracker to the global logger
func SetErrorTracker(tracker errors.Tracker) {
	if globalLogger != nil {
		globalLogger.tracker = tracker
	}
}

// Get returns the global logger, falling back to a development logger
func Get() *Logger {
	if globalLogger == nil {
		dev, _ := zap.NewDevelopment()
		globalLogger = &Logger{SugaredLogger: dev.Sugar()}
	}
	return globalLogger
}

// Component is shorthand for Get().With("component", name)
func Component(name string) *Logger {
	return Get().With("component", name)
}

// With creates a child logger with additional fields
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		tracker:       l.tracker,
	}
}

// WithFields creates a child logger with a map of fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.With(args...)
}

// Error logs and reports to the tracker when one is attached
func (l *Logger) Error(args ...interface{}) {
	l.SugaredLogger.Error(args...)
	l.capture(context.Background(), errors.Wrapf(errors.ErrInternal, "%v", fmt.Sprint(args...)), nil)
}

// Errorf logs a formatted error and reports it to the tracker
func (l *Logger) Errorf(template string, args ...interface{}) {
	l.SugaredLogger.Errorf(template, args...)
	l.capture(context.Background(), fmt.Errorf(template, args...), nil)
}

// Errorw logs with key-value pairs. String values become tracker tags.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)

	tags := make(map[string]string)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if v, ok := keysAndValues[i+1].(string); ok {
			tags[key] = v
		}
	}
	l.capture(context.Background(), errors.New(msg), tags)
}

// ErrorWithContext logs err and reports it with the caller's context
func (l *Logger) ErrorWithContext(ctx context.Context, err error, tags map[string]string) {
	l.SugaredLogger.Error(err)
	l.capture(ctx, err, tags)
}

func (l *Logger) capture(ctx context.Context, err error, tags map[string]string) {
	if l.tracker == nil || err == nil {
		return
	}
	if tags == nil {
		tags = map[string]string{}
	}
	if _, ok := tags["component"]; !ok {
		tags["component"] = "logger"
	}
	_ = l.tracker.CaptureError(ctx, err, tags)
}

// Convenience functions that use the global logger
func Debug(args ...interface{})                   { Get().Debug(args...) }
func Debugf(template string, args ...interface{}) { Get().Debugf(template, args...) }
func Info(args ...interface{})                    { Get().Info(args...) }
func Infof(template string, args ...interface{})  { Get().Infof(template, args...) }
func Warn(args ...interface{})                    { Get().Warn(args...) }
func Warnf(template string, args ...interface{})  { Get().Warnf(template, args...) }
func Error(args ...interface{})                   { Get().Error(args...) }
func Errorf(template string, args ...interface{}) { Get().Errorf(template, args...) }
func Fatal(args ...interface{})                   { Get().Fatal(args...) }
func Fatalf(template string, args ...interface{}) { Get().Fatalf(template, args...) }

// Sync flushes any buffered log entries
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
