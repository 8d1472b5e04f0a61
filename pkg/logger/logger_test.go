package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

type recordingTracker struct {
	errs []error
	tags []map[string]string
}

func (r *recordingTracker) CaptureError(_ context.Context, err error, tags map[string]string) error {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
	return nil
}

func (r *recordingTracker) CaptureMessage(context.Context, string, errors.Level, map[string]string) error {
	return nil
}
func (r *recordingTracker) SetUser(context.Context, string, string, string) {}
func (r *recordingTracker) AddBreadcrumb(context.Context, string, string, errors.Level, map[string]interface{}) {
}
func (r *recordingTracker) Flush(context.Context) error { return nil }

func TestErrorwForwardsStringTags(t *testing.T) {
	tracker := &recordingTracker{}
	log := NewNop()
	log.tracker = tracker

	log.With("component", "analyst").Errorw("search failed", "query", "glove", "attempt", 2)

	require.Len(t, tracker.errs, 1)
	assert.EqualError(t, tracker.errs[0], "search failed")
	assert.Equal(t, "glove", tracker.tags[0]["query"])
	assert.Equal(t, "logger", tracker.tags[0]["component"])
	_, hasAttempt := tracker.tags[0]["attempt"]
	assert.False(t, hasAttempt)
}

func TestErrorWithoutTrackerDoesNotPanic(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.Errorf("boom %d", 1)
		log.ErrorWithContext(context.Background(), errors.ErrInternal, nil)
	})
}

func TestInitFallsBackToInfoOnBadLevel(t *testing.T) {
	require.NoError(t, Init("not-a-level", "development"))
	assert.True(t, Get().Desugar().Core().Enabled(0))
	assert.False(t, Get().Desugar().Core().Enabled(-1))
}
