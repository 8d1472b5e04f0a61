package ai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ahmadnadir/gasnadir/internal/adapters/ratelimit"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

const summaryInstructions = "You are a gas sales analyst. Summarize the following analyst conversation " +
	"for a management report in at most five sentences. Mention the customers, sectors and " +
	"market events discussed and the recommended actions. Do not invent figures."

// maxTranscriptChars bounds the prompt size
const maxTranscriptChars = 24000

// SummarizerConfig configures the OpenAI chat completion call
type SummarizerConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int64
}

// Summarizer writes executive summaries of chat transcripts with OpenAI
type Summarizer struct {
	client    openai.Client
	model     openai.ChatModel
	timeout   time.Duration
	maxTokens int64
	limiter   *ratelimit.Limiter
	log       *logger.Logger
}

// NewSummarizer creates an OpenAI summarizer. limiter may be nil.
func NewSummarizer(cfg SummarizerConfig, limiter *ratelimit.Limiter) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "openai API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.ChatModelGPT4oMini)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Summarizer{
		client:    openai.NewClient(opts...),
		model:     openai.ChatModel(cfg.Model),
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
		limiter:   limiter,
		log:       logger.Get().With("component", "openai_summarizer", "model", cfg.Model),
	}, nil
}

// Summarize returns a short summary of transcript
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", errors.Wrapf(errors.ErrInvalidInput, "transcript cannot be empty")
	}
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[len(transcript)-maxTranscriptChars:]
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryInstructions),
			openai.UserMessage(transcript),
		},
		MaxCompletionTokens: openai.Int(s.maxTokens),
	})
	if err != nil {
		return "", errors.Wrap(err, "openai API call failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.Wrapf(errors.ErrInternal, "no completion choices returned")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.log.Debugw("Generated transcript summary",
		"transcript_length", len(transcript),
		"tokens_used", resp.Usage.TotalTokens,
	)
	return summary, nil
}
