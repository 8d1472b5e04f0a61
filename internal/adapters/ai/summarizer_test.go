package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

const completion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1715000000,
  "model": "gpt-4o-mini",
  "choices": [
    {"index": 0, "finish_reason": "stop", "logprobs": null,
     "message": {"role": "assistant", "content": "  Glove volumes are under pressure.  ", "refusal": null}}
  ],
  "usage": {"prompt_tokens": 50, "completion_tokens": 8, "total_tokens": 58}
}`

func TestSummarizeSendsTranscript(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completion)
	}))
	defer server.Close()

	s, err := NewSummarizer(SummarizerConfig{APIKey: "sk-test", BaseURL: server.URL + "/"}, nil)
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), "user: how are glove customers doing?")
	require.NoError(t, err)
	assert.Equal(t, "Glove volumes are under pressure.", out)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestSummarizerValidation(t *testing.T) {
	_, err := NewSummarizer(SummarizerConfig{}, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	s, err := NewSummarizer(SummarizerConfig{APIKey: "k"}, nil)
	require.NoError(t, err)
	_, err = s.Summarize(context.Background(), "   ")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestSummarizeSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"message": "bad model", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	s, err := NewSummarizer(SummarizerConfig{APIKey: "k", BaseURL: server.URL + "/"}, nil)
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), "transcript")
	assert.Error(t, err)
}
