package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrapf(ErrNoRelevantNews, "attempt %d", 2)

	assert.True(t, Is(err, ErrNoRelevantNews))
	assert.EqualError(t, err, "attempt 2: no relevant news found")
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("SEARCH", "tavily request failed", ErrNewsUnavailable)

	assert.True(t, Is(err, ErrNewsUnavailable))
	assert.Equal(t, "SEARCH: tavily request failed: news search unavailable", err.Error())

	var de *DomainError
	assert.True(t, As(Wrap(err, "search"), &de))
	assert.Equal(t, "SEARCH", de.Code)
}

func TestMultiError(t *testing.T) {
	var m MultiError
	assert.Nil(t, m.ToError())

	m.Add(nil)
	m.Add(ErrCacheMiss)
	m.Add(ErrTimeout)

	assert.True(t, m.HasErrors())
	assert.Equal(t, "multiple errors (2): cache miss", m.ToError().Error())
}
