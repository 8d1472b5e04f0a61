package analyst

import "time"

// Stage is a step of query processing reported to observers
type Stage string

const (
	StageSearchingNews   Stage = "searching_news"
	StageCorrelatingData Stage = "correlating_data"
	StageCompleted       Stage = "completed"
	StageFailed          Stage = "failed"
)

// Event reports progress on one query. Failed events describe an attempt
// that will be retried or replaced by the fallback narrative.
type Event struct {
	Stage     Stage     `json:"stage"`
	Query     string    `json:"query"`
	Attempt   int       `json:"attempt"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Observer receives stage events. It is called synchronously.
type Observer func(Event)
