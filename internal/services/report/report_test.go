package report

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

var fixedNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

type staticHistory struct {
	messages []chat.Message
	err      error
}

func (h staticHistory) History(context.Context, int) ([]chat.Message, error) { return h.messages, h.err }

type staticSummarizer struct {
	summary    string
	err        error
	transcript string
}

func (s *staticSummarizer) Summarize(_ context.Context, transcript string) (string, error) {
	s.transcript = transcript
	return s.summary, s.err
}

func conversation() []chat.Message {
	return []chat.Message{
		{ID: uuid.New(), Role: chat.RoleUser, Content: "How are glove customers doing?", Timestamp: fixedNow},
		{
			ID:        uuid.New(),
			Role:      chat.RoleAssistant,
			Content:   "**Key Finding:** Volumes fell\n\nEngage customers.",
			Timestamp: fixedNow.Add(time.Second),
			Insights:  []insight.CorrelatedInsight{{Title: "Volume decline", ImpactScore: -7, Confidence: 80}},
			Sources:   []chat.Source{{Title: "Glove demand", URL: "https://news/1", PublishedDate: "2025-05-19", Source: "Wire"}},
		},
	}
}

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(body)
		}
	}
	t.Fatal("word/document.xml missing")
	return ""
}

func TestExportWithSummary(t *testing.T) {
	summarizer := &staticSummarizer{summary: "Glove volumes are under pressure."}
	svc := NewService(staticHistory{messages: conversation()}, summarizer, func() time.Time { return fixedNow })

	data, err := svc.Export(context.Background(), 50)
	require.NoError(t, err)

	doc := documentXML(t, data)
	assert.Contains(t, doc, "Gas Volume Analyst Report")
	assert.Contains(t, doc, "Executive Summary")
	assert.Contains(t, doc, "Glove volumes are under pressure.")
	assert.Contains(t, doc, "Key Finding: Volumes fell")
	assert.NotContains(t, doc, "**")
	assert.Contains(t, doc, "- Volume decline (impact -7/10, confidence 80%)")
	assert.Contains(t, doc, "https://news/1")
	assert.Contains(t, doc, "2 messages")

	assert.Equal(t, "Question: How are glove customers doing?\n\nAnalyst: **Key Finding:** Volumes fell\n\nEngage customers.",
		summarizer.transcript)
}

func TestExportSurvivesSummaryFailure(t *testing.T) {
	svc := NewService(staticHistory{messages: conversation()}, &staticSummarizer{err: errors.ErrUnavailable}, nil)

	data, err := svc.Export(context.Background(), 50)
	require.NoError(t, err)
	assert.NotContains(t, documentXML(t, data), "Executive Summary")
}

func TestExportEmptyHistory(t *testing.T) {
	summarizer := &staticSummarizer{summary: "unused"}
	svc := NewService(staticHistory{}, summarizer, nil)

	data, err := svc.Export(context.Background(), 50)
	require.NoError(t, err)
	assert.Contains(t, documentXML(t, data), "No analyst conversation recorded yet.")
	assert.Empty(t, summarizer.transcript)
}

func TestExportHistoryError(t *testing.T) {
	svc := NewService(staticHistory{err: errors.ErrUnavailable}, nil, nil)
	_, err := svc.Export(context.Background(), 50)
	assert.True(t, errors.Is(err, errors.ErrUnavailable))
}
