package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source is a news citation attached to an assistant message
type Source struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Source        string `json:"source"`
}

// Message is one turn of the analyst conversation.
// Error marks a canned fallback answer the user may retry.
type Message struct {
	ID        uuid.UUID                   `json:"id"`
	Role      Role                        `json:"role"`
	Query     string                      `json:"query,omitempty"`
	Content   string                      `json:"content"`
	Timestamp time.Time                   `json:"timestamp"`
	Sources   []Source                    `json:"sources,omitempty"`
	Insights  []insight.CorrelatedInsight `json:"insights,omitempty"`
	Error     bool                        `json:"error,omitempty"`
}

// InsightEvent is the stream record for one insight of an assistant message
type InsightEvent struct {
	MessageID uuid.UUID                 `json:"messageId"`
	Query     string                    `json:"query"`
	Insight   insight.CorrelatedInsight `json:"insight"`
	Timestamp time.Time                 `json:"timestamp"`
}
