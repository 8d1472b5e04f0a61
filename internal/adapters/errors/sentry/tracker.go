package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

var _ errors.Tracker = (*Tracker)(nil)

type contextKey string

// QueryKey carries the analyst query an error happened under
const QueryKey contextKey = "analyst_query"

const flushTimeout = 2 * time.Second

// Tracker reports errors to Sentry
type Tracker struct {
	hub *sentry.Hub
}

// New initializes the Sentry SDK. release may be empty.
func New(dsn, environment, release string) (*Tracker, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init sentry")
	}

	return &Tracker{hub: sentry.CurrentHub()}, nil
}

// WithQuery attaches the analyst query to ctx for error reports
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, QueryKey, query)
}

// CaptureError sends err with tags on a cloned hub
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	hub := t.hub.Clone()

	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if q, ok := ctx.Value(QueryKey).(string); ok {
			scope.SetContext("analyst", sentry.Context{"query": q})
		}
	})

	hub.CaptureException(err)
	return nil
}

func (t *Tracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	hub := t.hub.Clone()

	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetLevel(convertLevel(level))
	})

	hub.CaptureMessage(message)
	return nil
}

// SetUser associates later reports with a chat user, e.g. a Telegram account
func (t *Tracker) SetUser(_ context.Context, userID string, email string, username string) {
	t.hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: userID, Email: email, Username: username})
	})
}

func (t *Tracker) AddBreadcrumb(_ context.Context, message string, category string, level errors.Level, data map[string]interface{}) {
	t.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Message:  message,
		Category: category,
		Level:    convertLevel(level),
		Data:     data,
	}, nil)
}

// Flush waits for pending events. Returns errors.ErrTimeout when events
// are still queued after the flush window.
func (t *Tracker) Flush(_ context.Context) error {
	if !t.hub.Flush(flushTimeout) {
		return errors.Wrap(errors.ErrTimeout, "sentry flush")
	}
	return nil
}

func convertLevel(level errors.Level) sentry.Level {
	switch level {
	case errors.LevelDebug:
		return sentry.LevelDebug
	case errors.LevelWarning:
		return sentry.LevelWarning
	case errors.LevelError:
		return sentry.LevelError
	case errors.LevelFatal:
		return sentry.LevelFatal
	default:
		return sentry.LevelInfo
	}
}
