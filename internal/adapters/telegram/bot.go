package telegram

import (
	"context"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Sender delivers MarkdownV2 text to a chat
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
	Typing(chatID int64)
}

// Bot represents a Telegram bot instance
type Bot struct {
	api         *tgbotapi.BotAPI
	log         *logger.Logger
	mu          sync.RWMutex
	running     bool
	handler     func(context.Context, tgbotapi.Update)
	rateLimiter *rate.Limiter
}

// Config contains Telegram bot configuration
type Config struct {
	Token          string
	Debug          bool
	Timeout        int // update long-poll timeout in seconds
	HTTPTimeout    time.Duration
	RateLimitBurst int
	RateLimitRate  int // messages per second
}

// NewBot authorizes the bot token against the Bot API
func NewBot(cfg Config) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 60
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 90 * time.Second
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 30
	}
	if cfg.RateLimitRate == 0 {
		cfg.RateLimitRate = 20 // Telegram allows 30/s
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}
	api.Debug = cfg.Debug

	log := logger.Get().With("component", "telegram_bot")
	log.Infow("Authorized on Telegram", "account", api.Self.UserName)

	return &Bot{
		api:         api,
		log:         log,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRate), cfg.RateLimitBurst),
	}, nil
}

// SetHandler registers the update handler. Updates arriving without a
// handler are logged and dropped.
func (b *Bot) SetHandler(handler func(context.Context, tgbotapi.Update)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return errors.New("bot is already running")
	}
	b.running = true
	b.mu.Unlock()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("Telegram bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.Stop()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.Stop()
				return nil
			}
			go b.dispatch(ctx, update)
		}
	}
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return
	}
	b.api.StopReceivingUpdates()
	b.running = false
	b.log.Info("Telegram bot stopped")
}

// IsRunning returns whether the bot is polling
func (b *Bot) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()

	if handler == nil {
		b.log.Debugw("Received update (no handler registered)", "update_id", update.UpdateID)
		return
	}
	handler(ctx, update)
}

// Send sends a MarkdownV2 message, waiting on the rate limiter first
func (b *Bot) Send(ctx context.Context, chatID int64, text string) error {
	if err := b.rateLimiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait failed")
	}

	start := time.Now()
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("Failed to send message",
			"chat_id", chatID,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return errors.Wrap(err, "failed to send message")
	}

	b.log.Debugw("Message sent",
		"chat_id", chatID,
		"text_length", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Typing shows the "typing..." indicator. Failures are only logged.
func (b *Bot) Typing(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debugw("Failed to send typing action", "chat_id", chatID, "error", err)
	}
}
