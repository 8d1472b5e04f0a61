package bootstrap

import (
	"context"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/adapters/ai"
	chclient "github.com/ahmadnadir/gasnadir/internal/adapters/clickhouse"
	"github.com/ahmadnadir/gasnadir/internal/adapters/config"
	errnoop "github.com/ahmadnadir/gasnadir/internal/adapters/errors/noop"
	"github.com/ahmadnadir/gasnadir/internal/adapters/errors/sentry"
	"github.com/ahmadnadir/gasnadir/internal/adapters/kafka"
	pgclient "github.com/ahmadnadir/gasnadir/internal/adapters/postgres"
	"github.com/ahmadnadir/gasnadir/internal/adapters/ratelimit"
	redisclient "github.com/ahmadnadir/gasnadir/internal/adapters/redis"
	"github.com/ahmadnadir/gasnadir/internal/adapters/rss"
	"github.com/ahmadnadir/gasnadir/internal/adapters/tavily"
	"github.com/ahmadnadir/gasnadir/internal/adapters/telegram"
	"github.com/ahmadnadir/gasnadir/internal/api"
	"github.com/ahmadnadir/gasnadir/internal/api/health"
	"github.com/ahmadnadir/gasnadir/internal/metrics"
	chrepo "github.com/ahmadnadir/gasnadir/internal/repository/clickhouse"
	pgrepo "github.com/ahmadnadir/gasnadir/internal/repository/postgres"
	redisrepo "github.com/ahmadnadir/gasnadir/internal/repository/redis"
	"github.com/ahmadnadir/gasnadir/internal/services/analyst"
	"github.com/ahmadnadir/gasnadir/internal/services/customer"
	newsvc "github.com/ahmadnadir/gasnadir/internal/services/news"
	"github.com/ahmadnadir/gasnadir/internal/services/policy"
	"github.com/ahmadnadir/gasnadir/internal/services/report"
	"github.com/ahmadnadir/gasnadir/internal/services/summary"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

const connectTimeout = 15 * time.Second

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration, the logger, metrics and error tracking
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)

	metrics.Init()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects the data stores. Postgres is required;
// ClickHouse and Redis are skipped when disabled or unreachable.
func (c *Container) MustInitInfrastructure() {
	ctx, cancel := context.WithTimeout(c.Context, connectTimeout)
	defer cancel()

	var err error

	c.Log.Info("Connecting to PostgreSQL...")
	c.PG, err = pgclient.NewClient(ctx, c.Config.Postgres)
	if err != nil {
		c.Log.Fatalf("failed to connect postgres: %v", err)
	}
	if err := pgrepo.Migrate(ctx, c.PG.DB()); err != nil {
		c.Log.Fatalf("failed to migrate postgres: %v", err)
	}
	c.Log.Info("PostgreSQL connected and migrated")

	if c.Config.ClickHouse.Enabled {
		c.CH, err = chclient.NewClient(ctx, c.Config.ClickHouse)
		if err != nil {
			c.Log.Warnw("ClickHouse unavailable, news archive disabled", "error", err)
			c.CH = nil
		} else {
			c.Log.Info("ClickHouse connected")
		}
	}

	if c.Config.Redis.Enabled {
		c.Redis, err = redisclient.NewClient(ctx, c.Config.Redis)
		if err != nil {
			c.Log.Warnw("Redis unavailable, search cache disabled", "error", err)
			c.Redis = nil
		} else {
			c.Log.Info("Redis connected")
		}
	}

	metrics.RegisterCustomCollector(metrics.NewCustomCollector(c.Log.With("component", "metrics_collector"), c.PG.DB()))
}

// ========================================
// Phase 3: Repositories
// ========================================

// MustInitRepositories initializes the stores
func (c *Container) MustInitRepositories() {
	c.Repos.Customers = pgrepo.NewCustomerRepository(c.PG.DB())
	c.Repos.Volumes = pgrepo.NewVolumeRepository(c.PG.DB())
	c.Repos.Chat = pgrepo.NewChatRepository(c.PG.DB())

	if c.CH != nil {
		archive := chrepo.NewNewsRepository(c.CH.Conn(), "")
		ctx, cancel := context.WithTimeout(c.Context, connectTimeout)
		defer cancel()
		if err := archive.EnsureSchema(ctx); err != nil {
			c.Log.Warnw("News archive schema unavailable, archive disabled", "error", err)
		} else {
			c.Repos.Archive = archive
		}
	}

	if c.Redis != nil {
		c.Repos.SearchCache = redisrepo.NewSearchCache(c.Redis, c.Config.Redis.CacheTTL)
	}

	c.Log.Infow("Repositories initialized",
		"news_archive", c.Repos.Archive != nil,
		"search_cache", c.Repos.SearchCache != nil,
	)
}

// ========================================
// Phase 4: External Adapters
// ========================================

// MustInitAdapters initializes Kafka, the news clients and OpenAI
func (c *Container) MustInitAdapters() {
	cfg := c.Config

	if cfg.Kafka.Enabled() {
		c.Adapters.KafkaProducer = provideKafkaProducer(cfg, c.Log)
	}

	c.Adapters.Tavily = tavily.NewClient(tavily.Config{
		APIKey:      cfg.News.TavilyAPIKey,
		BaseURL:     cfg.News.TavilyBaseURL,
		Timeout:     cfg.News.ClientTimeout,
		MaxResults:  cfg.News.MaxResults,
		SearchDepth: cfg.News.SearchDepth,
	}, ratelimit.NewLimiter("tavily", cfg.News.RequestsPerMinute))
	if cfg.News.TavilyAPIKey == "" {
		c.Log.Warn("TAVILY_API_KEY not set, analyst will answer from the offline news payload")
	}

	c.Adapters.RSSFetcher = rss.NewFetcher(cfg.News.ClientTimeout)

	if cfg.AI.OpenAIKey != "" {
		summarizer, err := ai.NewSummarizer(ai.SummarizerConfig{
			APIKey: cfg.AI.OpenAIKey,
			Model:  cfg.AI.Model,
		}, ratelimit.NewLimiter("openai", 60))
		if err != nil {
			c.Log.Warnw("OpenAI summarizer disabled", "error", err)
		} else {
			c.Adapters.Summarizer = summarizer
		}
	}

	c.Log.Infow("Adapters initialized",
		"kafka", c.Adapters.KafkaProducer != nil,
		"openai", c.Adapters.Summarizer != nil,
	)
}

// ========================================
// Phase 5: Domain Services
// ========================================

// MustInitServices wires the analyst pipeline and its read models
func (c *Container) MustInitServices() {
	reg := templates.Get()

	c.Services.News = newsvc.NewSearcher(c.Adapters.Tavily, c.Repos.SearchCache, c.Repos.Archive, newsvc.SearcherConfig{
		MaxRetries:   c.Config.News.MaxRetries,
		RetryDelay:   c.Config.News.RetryDelay,
		FetchTimeout: c.Config.News.FetchTimeout,
	})
	c.Services.Policy = policy.NewSpecializer(reg)

	c.Services.Analyst = analyst.NewService(analyst.Deps{
		Searcher:    c.Services.News,
		Customers:   c.Repos.Customers,
		Records:     c.Repos.Volumes,
		Specializer: c.Services.Policy,
		History:     c.Repos.Chat,
		Publisher:   c.publisher(),
		Templates:   reg,
	}, analyst.Config{MaxQueryRetries: c.Config.Analyst.MaxQueryRetries})

	c.Services.Customers = customer.NewService(c.Repos.Customers, c.Repos.Volumes, nil)
	c.Services.Summary = summary.NewService(c.Repos.Customers, c.Repos.Volumes, nil)

	var summarizer report.Summarizer
	if c.Adapters.Summarizer != nil {
		summarizer = c.Adapters.Summarizer
	}
	c.Services.Report = report.NewService(c.Services.Analyst, summarizer, nil)

	c.Log.Info("Services initialized")
}

// ========================================
// Phase 6: Application Layer
// ========================================

// MustInitApplication builds the HTTP server and the Telegram bot
func (c *Container) MustInitApplication() {
	c.Application.HTTPServer = provideHTTPServer(c)

	if !c.Config.Telegram.Enabled() {
		c.Log.Info("Telegram bot disabled")
		return
	}

	bot, err := telegram.NewBot(telegram.Config{
		Token: c.Config.Telegram.BotToken,
		Debug: c.Config.Telegram.Debug,
	})
	if err != nil {
		c.Log.Warnw("Telegram bot unavailable", "error", err)
		return
	}

	c.Application.TelegramBot = bot
	c.Application.TelegramHandler = telegram.NewHandler(c.Services.Analyst, c.Services.Customers, bot, templates.Get())
	bot.SetHandler(c.Application.TelegramHandler.HandleUpdate)
	c.Log.Info("Telegram bot initialized")
}

// ========================================
// Phase 7: Background Processing
// ========================================

// MustInitBackground initializes workers and the insight alert consumer
func (c *Container) MustInitBackground() {
	c.Background.WorkerScheduler = provideWorkers(c.Config, c.Adapters.RSSFetcher, c.Repos.Archive, c.publisher(), c.Log)

	tg := c.Config.Telegram
	if c.Application.TelegramBot == nil || !c.Config.Kafka.Enabled() || len(tg.AlertChatIDs) == 0 {
		c.Log.Info("Telegram insight alerts disabled")
		return
	}

	c.Adapters.AlertConsumer = kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: c.Config.Kafka.Brokers,
		GroupID: tg.AlertGroupID,
		Topic:   kafka.TopicAnalystInsights,
	})
	c.Background.AlertNotifier = telegram.NewAlertNotifier(c.Application.TelegramBot, tg.AlertChatIDs, tg.AlertMinImpact, templates.Get())

	c.Log.Infow("Telegram insight alerts enabled", "chats", len(tg.AlertChatIDs), "min_impact", tg.AlertMinImpact)
}

// ========================================
// Helper Provider Functions
// ========================================

// publisher returns a nil interface when Kafka is disabled
func (c *Container) publisher() analyst.Publisher {
	if c.Adapters.KafkaProducer == nil {
		return nil
	}
	return c.Adapters.KafkaProducer
}

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func provideKafkaProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
	log.Infow("Kafka producer initialized", "brokers", cfg.Kafka.Brokers)
	return producer
}

func provideHTTPServer(c *Container) *api.Server {
	components := []health.Component{
		{Name: "postgres", Check: c.PG.Health, Required: true},
	}
	if c.CH != nil {
		components = append(components, health.Component{Name: "clickhouse", Check: c.CH.Health})
	}
	if c.Redis != nil {
		components = append(components, health.Component{Name: "redis", Check: c.Redis.Health})
	}

	return api.NewServer(api.ServerConfig{
		Port:         c.Config.HTTP.Port,
		ServiceName:  c.Config.App.Name,
		Version:      c.Config.App.Version,
		ReadTimeout:  c.Config.HTTP.ReadTimeout,
		WriteTimeout: c.Config.HTTP.WriteTimeout,
		HistoryLimit: c.Config.Analyst.HistoryLimit,
	}, api.Services{
		Analyst:   c.Services.Analyst,
		Customers: c.Services.Customers,
		Summaries: c.Services.Summary,
		Policy:    c.Services.Policy,
		Exporter:  c.Services.Report,
	}, health.New(c.Config.App.Name, c.Config.App.Version, components...))
}
