package analyst

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadnadir/gasnadir/internal/adapters/kafka"
	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/internal/metrics"
	"github.com/ahmadnadir/gasnadir/internal/services/correlation"
	newsvc "github.com/ahmadnadir/gasnadir/internal/services/news"
	"github.com/ahmadnadir/gasnadir/internal/services/policy"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

// Outcomes recorded per processed query
const (
	OutcomeInsights = "insights"
	OutcomePolicy   = "policy"
	OutcomeFallback = "fallback"
)

// policySources are cited on the canned tariff answer
var policySources = []chat.Source{
	{
		Title:         "US-Malaysia Trade Relations Report",
		URL:           "https://example.com/trade-report",
		PublishedDate: "2025-04-15",
		Source:        "Trade Analysis Bureau",
	},
	{
		Title:         "Impact of Tariffs on Asian Manufacturing",
		URL:           "https://example.com/tariff-impact",
		PublishedDate: "2025-04-10",
		Source:        "Economic Research Institute",
	},
}

// NewsSearcher resolves a query to news
type NewsSearcher interface {
	Search(ctx context.Context, query string) (*news.SearchResponse, error)
}

// Publisher streams produced messages and insights
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// Config tunes the query loop
type Config struct {
	MaxQueryRetries int
}

// Deps groups the collaborators of the analyst service. History and
// Publisher are optional.
type Deps struct {
	Searcher    NewsSearcher
	Customers   volume.CustomerRepository
	Records     volume.RecordRepository
	Engine      *correlation.Engine
	Specializer *policy.Specializer
	History     chat.Repository
	Publisher   Publisher
	Templates   *templates.Registry
	Clock       func() time.Time
}

// Service answers free-text questions by correlating news with gas volumes
type Service struct {
	deps       Deps
	maxRetries int
	now        func() time.Time
	log        *logger.Logger
}

// NewService creates the analyst service
func NewService(deps Deps, cfg Config) *Service {
	if deps.Templates == nil {
		deps.Templates = templates.Get()
	}
	if deps.Specializer == nil {
		deps.Specializer = policy.NewSpecializer(deps.Templates)
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	if deps.Engine == nil {
		deps.Engine = correlation.NewEngine(now)
	}

	return &Service{
		deps:       deps,
		maxRetries: max(cfg.MaxQueryRetries, 0),
		now:        now,
		log:        logger.Get().With("component", "analyst"),
	}
}

// ProcessQuery answers one question. It only fails on an empty query or a
// cancelled context: when every attempt fails the canned fallback narrative
// is returned with Error set. obs may be nil.
func (s *Service) ProcessQuery(ctx context.Context, query string, obs Observer) (*chat.Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrEmptyQuery
	}

	start := time.Now()
	s.save(ctx, &chat.Message{
		ID:        uuid.New(),
		Role:      chat.RoleUser,
		Content:   query,
		Timestamp: s.now(),
	})

	msg, outcome, err := s.answer(ctx, query, obs)
	if err != nil {
		return nil, err
	}

	kinds := make([]string, 0, len(msg.Insights))
	for _, in := range msg.Insights {
		kinds = append(kinds, string(in.Kind))
	}
	metrics.RecordAnalystQuery(outcome, time.Since(start), kinds)

	s.save(ctx, msg)
	s.publish(ctx, msg)
	s.emit(obs, Event{Stage: StageCompleted, Query: query})

	s.log.Infow("Query answered",
		"outcome", outcome,
		"insights", len(msg.Insights),
		"sources", len(msg.Sources),
		"duration", time.Since(start),
	)
	return msg, nil
}

func (s *Service) answer(ctx context.Context, query string, obs Observer) (*chat.Message, string, error) {
	if isPolicyQuestion(query) {
		if content := s.deps.Specializer.Respond(query, nil, nil); content != "" {
			return s.assistant(query, content, policySources, nil), OutcomePolicy, nil
		}
	}

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		msg, err := s.attempt(ctx, query, attempt, obs)
		if err == nil {
			return msg, OutcomeInsights, nil
		}
		if ctx.Err() != nil {
			return nil, "", errors.Wrap(ctx.Err(), "process query")
		}

		s.emit(obs, Event{Stage: StageFailed, Query: query, Attempt: attempt, Detail: err.Error()})
		if attempt < s.maxRetries {
			s.log.Warnw("Query attempt failed, retrying",
				"attempt", attempt+1,
				"max_retries", s.maxRetries,
				"error", err,
			)
			continue
		}
		s.log.Warnw("Query attempts exhausted, using fallback narrative", "error", err)
	}

	content := FallbackNarrative(s.deps.Templates, s.policyResponse, query)
	msg := s.assistant(query, content, nil, nil)
	msg.Error = true
	return msg, OutcomeFallback, nil
}

// attempt runs search, normalization, correlation and response rendering once
func (s *Service) attempt(ctx context.Context, query string, attempt int, obs Observer) (*chat.Message, error) {
	s.emit(obs, Event{Stage: StageSearchingNews, Query: query, Attempt: attempt})

	resp, err := s.deps.Searcher.Search(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "search news")
	}
	if resp == nil || len(resp.Results) == 0 {
		return nil, errors.ErrNoRelevantNews
	}

	s.emit(obs, Event{Stage: StageCorrelatingData, Query: query, Attempt: attempt})

	customers, err := s.deps.Customers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}
	records, err := s.deps.Records.List(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "load volume records")
	}

	items := newsvc.Normalize(resp.Results, s.now())
	result := s.deps.Engine.Correlate(query, items, records, customers)

	content, err := s.respond(query, result.Insights)
	if err != nil {
		return nil, err
	}

	return s.assistant(query, content, newsvc.Sources(resp.Results), result.Insights), nil
}

// respond prefers the policy narrative, then the insight response, then the
// fallback narrative when nothing was synthesized.
func (s *Service) respond(query string, insights []insight.CorrelatedInsight) (string, error) {
	var refs []insight.NewsReference
	var data []insight.DataReference
	if len(insights) > 0 {
		refs, data = insights[0].NewsReferences, insights[0].DataReferences
	}
	if out := s.deps.Specializer.Respond(query, refs, data); out != "" {
		return out, nil
	}

	if len(insights) == 0 {
		return FallbackNarrative(s.deps.Templates, s.policyResponse, query), nil
	}

	out, err := BuildResponse(s.deps.Templates, query, insights)
	if err != nil {
		return "", errors.Wrap(err, "render response")
	}
	return out, nil
}

func (s *Service) policyResponse(query string) string {
	return s.deps.Specializer.Respond(query, nil, nil)
}

func (s *Service) assistant(query, content string, sources []chat.Source, insights []insight.CorrelatedInsight) *chat.Message {
	return &chat.Message{
		ID:        uuid.New(),
		Role:      chat.RoleAssistant,
		Query:     query,
		Content:   content,
		Timestamp: s.now(),
		Sources:   sources,
		Insights:  insights,
	}
}

// History returns up to limit stored messages, oldest first
func (s *Service) History(ctx context.Context, limit int) ([]chat.Message, error) {
	if s.deps.History == nil {
		return []chat.Message{}, nil
	}
	return s.deps.History.ListRecent(ctx, limit)
}

func (s *Service) save(ctx context.Context, msg *chat.Message) {
	if s.deps.History == nil {
		return
	}
	if err := s.deps.History.Save(ctx, msg); err != nil {
		s.log.Warnw("Failed to store chat message", "id", msg.ID, "role", msg.Role, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, msg *chat.Message) {
	if s.deps.Publisher == nil {
		return
	}

	key := msg.ID.String()
	if err := s.deps.Publisher.Publish(ctx, kafka.TopicAnalystMessages, key, msg); err != nil {
		s.log.Warnw("Failed to publish message", "id", key, "error", err)
	}
	for _, in := range msg.Insights {
		ev := chat.InsightEvent{MessageID: msg.ID, Query: msg.Query, Insight: in, Timestamp: msg.Timestamp}
		if err := s.deps.Publisher.Publish(ctx, kafka.TopicAnalystInsights, key, ev); err != nil {
			s.log.Warnw("Failed to publish insight", "id", in.ID, "error", err)
		}
	}
}

func (s *Service) emit(obs Observer, ev Event) {
	if obs == nil {
		return
	}
	ev.Timestamp = s.now()
	obs(ev)
}

func isPolicyQuestion(query string) bool {
	lower := strings.ToLower(query)
	policyish := strings.Contains(lower, "tariff") || strings.Contains(lower, "trump") || strings.Contains(lower, "policy")
	return policyish && (strings.Contains(lower, "rubber") || strings.Contains(lower, "glove"))
}
