package correlation

import (
	"time"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Result is the outcome of one correlation pass
type Result struct {
	Intent   Intent                      `json:"intent"`
	News     []insight.NewsReference     `json:"news"`
	Data     []insight.DataReference     `json:"data"`
	Insights []insight.CorrelatedInsight `json:"insights"`
}

// Engine runs the correlation pipeline against a clock. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	now func() time.Time
	log *logger.Logger
}

// NewEngine creates an engine. A nil clock means time.Now.
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		now: clock,
		log: logger.Get().With("component", "correlation_engine"),
	}
}

// Correlate extracts the query intent, ranks the news, narrows the volume
// records to matching customers, computes trends and synthesizes insights.
func (e *Engine) Correlate(query string, items []news.Item, records []volume.Record, customers []volume.Customer) Result {
	now := e.now()

	intent := ExtractIntent(query)
	refs := FilterAndRankNews(query, items)
	filtered := FilterRecords(records, customers, intent)
	data := AnalyzeVolumeTrend(filtered, now)
	insights := SynthesizeInsights(refs, data, query, now)

	e.log.Debugw("Correlation complete",
		"sectors", intent.Sectors,
		"areas", intent.Areas,
		"news_in", len(items),
		"news_relevant", len(refs),
		"records", len(filtered),
		"data_refs", len(data),
		"insights", len(insights),
	)

	return Result{
		Intent:   intent,
		News:     refs,
		Data:     data,
		Insights: insights,
	}
}

// AnalyzeVolumeTrend runs the trend analyzer against the engine clock
func (e *Engine) AnalyzeVolumeTrend(records []volume.Record) []insight.DataReference {
	return AnalyzeVolumeTrend(records, e.now())
}

// SynthesizeInsights runs the synthesizer against the engine clock
func (e *Engine) SynthesizeInsights(refs []insight.NewsReference, data []insight.DataReference, query string) []insight.CorrelatedInsight {
	return SynthesizeInsights(refs, data, query, e.now())
}
