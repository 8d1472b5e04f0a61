package bootstrap

import (
	"context"
	"sync"

	"github.com/ahmadnadir/gasnadir/internal/adapters/ai"
	chclient "github.com/ahmadnadir/gasnadir/internal/adapters/clickhouse"
	"github.com/ahmadnadir/gasnadir/internal/adapters/config"
	"github.com/ahmadnadir/gasnadir/internal/adapters/kafka"
	pgclient "github.com/ahmadnadir/gasnadir/internal/adapters/postgres"
	redisclient "github.com/ahmadnadir/gasnadir/internal/adapters/redis"
	"github.com/ahmadnadir/gasnadir/internal/adapters/rss"
	"github.com/ahmadnadir/gasnadir/internal/adapters/tavily"
	"github.com/ahmadnadir/gasnadir/internal/adapters/telegram"
	"github.com/ahmadnadir/gasnadir/internal/api"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	pgrepo "github.com/ahmadnadir/gasnadir/internal/repository/postgres"
	"github.com/ahmadnadir/gasnadir/internal/services/analyst"
	"github.com/ahmadnadir/gasnadir/internal/services/customer"
	newsvc "github.com/ahmadnadir/gasnadir/internal/services/news"
	"github.com/ahmadnadir/gasnadir/internal/services/policy"
	"github.com/ahmadnadir/gasnadir/internal/services/report"
	"github.com/ahmadnadir/gasnadir/internal/services/summary"
	"github.com/ahmadnadir/gasnadir/internal/workers"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Container holds all application dependencies and their lifecycle.
// Components are organized in initialization order.
type Container struct {
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Data stores. CH and Redis stay nil when disabled.
	PG    *pgclient.Client
	CH    *chclient.Client
	Redis *redisclient.Client

	Repos       *Repositories
	Adapters    *Adapters
	Services    *Services
	Application *Application
	Background  *Background

	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Repositories groups the stores. Archive and SearchCache are nil
// interfaces when their backing store is disabled.
type Repositories struct {
	Customers   *pgrepo.CustomerRepository
	Volumes     *pgrepo.VolumeRepository
	Chat        *pgrepo.ChatRepository
	Archive     news.Archive
	SearchCache news.SearchCache
}

// Adapters groups external clients
type Adapters struct {
	KafkaProducer *kafka.Producer
	AlertConsumer *kafka.Consumer
	Tavily        *tavily.Client
	RSSFetcher    *rss.Fetcher
	Summarizer    *ai.Summarizer
}

// Services groups the domain services
type Services struct {
	News      *newsvc.Searcher
	Policy    *policy.Specializer
	Analyst   *analyst.Service
	Customers *customer.Service
	Summary   *summary.Service
	Report    *report.Service
}

// Application groups the outer surfaces
type Application struct {
	HTTPServer      *api.Server
	TelegramBot     *telegram.Bot
	TelegramHandler *telegram.Handler
}

// Background groups workers and stream consumers
type Background struct {
	WorkerScheduler *workers.Scheduler
	AlertNotifier   *telegram.AlertNotifier
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Repos:       &Repositories{},
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Background:  &Background{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in order and exits on failure
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
	c.MustInitBackground()
}

// Start launches the HTTP server, the bot, the consumers and the workers
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	if err := c.Background.WorkerScheduler.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start workers")
	}

	if c.Adapters.AlertConsumer != nil && c.Background.AlertNotifier != nil {
		c.WG.Add(1)
		go func() {
			defer c.WG.Done()
			if err := c.Adapters.AlertConsumer.Consume(c.Context, c.Background.AlertNotifier.HandleMessage); err != nil && c.Context.Err() == nil {
				c.Log.Errorw("Alert consumer failed", "error", err)
			}
		}()
	}

	if c.Application.TelegramBot != nil {
		c.WG.Add(1)
		go func() {
			defer c.WG.Done()
			if err := c.Application.TelegramBot.Start(c.Context); err != nil {
				c.Log.Errorw("Telegram bot failed", "error", err)
			}
		}()
	}

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorw("HTTP server failed", "error", err)
			c.Cancel()
		}
	}()

	c.Log.Info("All systems operational")
	return nil
}

// Shutdown cancels the application context and releases everything in
// dependency order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")
	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Background.WorkerScheduler,
		c.Application.TelegramBot,
		c.Adapters.AlertConsumer,
		c.Adapters.KafkaProducer,
		c.PG,
		c.CH,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}
