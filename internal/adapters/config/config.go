package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Telegram      TelegramConfig
	News          NewsConfig
	Analyst       AnalystConfig
	AI            AIConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"gasnadir"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port         int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ClickHouseConfig holds the news archive connection. Disabled by default.
type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"gasnadir"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_SEARCH_CACHE_TTL" default:"15m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig: an empty broker list disables event publishing
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// TelegramConfig: alerts go to AlertChatIDs for insights whose absolute
// impact reaches AlertMinImpact
type TelegramConfig struct {
	BotToken       string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	Debug          bool    `envconfig:"TELEGRAM_DEBUG" default:"false"`
	AlertChatIDs   []int64 `envconfig:"TELEGRAM_ALERT_CHAT_IDS"`
	AlertMinImpact int     `envconfig:"TELEGRAM_ALERT_MIN_IMPACT" default:"6"`
	AlertGroupID   string  `envconfig:"TELEGRAM_ALERT_GROUP_ID" default:"gasnadir-telegram-alerts"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// NewsConfig covers the search API client and RSS ingestion
type NewsConfig struct {
	TavilyAPIKey      string        `envconfig:"TAVILY_API_KEY"`
	TavilyBaseURL     string        `envconfig:"TAVILY_BASE_URL" default:"https://api.tavily.com"`
	FetchTimeout      time.Duration `envconfig:"NEWS_FETCH_TIMEOUT" default:"8s"`
	ClientTimeout     time.Duration `envconfig:"NEWS_CLIENT_TIMEOUT" default:"10s"`
	MaxRetries        int           `envconfig:"NEWS_MAX_RETRIES" default:"2"`
	RetryDelay        time.Duration `envconfig:"NEWS_RETRY_DELAY" default:"1s"`
	RequestsPerMinute int           `envconfig:"NEWS_REQUESTS_PER_MINUTE" default:"60"`
	MaxResults        int           `envconfig:"NEWS_MAX_RESULTS" default:"5"`
	SearchDepth       string        `envconfig:"NEWS_SEARCH_DEPTH" default:"advanced"`
	RSSFeeds          []string      `envconfig:"NEWS_RSS_FEEDS"`
}

type AnalystConfig struct {
	MaxQueryRetries int `envconfig:"ANALYST_MAX_QUERY_RETRIES" default:"2"`
	HistoryLimit    int `envconfig:"ANALYST_HISTORY_LIMIT" default:"50"`
}

// AIConfig: an empty key disables the report summary
type AIConfig struct {
	OpenAIKey string `envconfig:"OPENAI_API_KEY"`
	Model     string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

type WorkerConfig struct {
	RSSCollectorEnabled  bool          `envconfig:"WORKER_RSS_COLLECTOR_ENABLED" default:"true"`
	RSSCollectorInterval time.Duration `envconfig:"WORKER_RSS_COLLECTOR_INTERVAL" default:"30m"`
}

// Load reads configuration from environment variables.
// A .env file, when present, is loaded first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if cfg.News.MaxRetries < 0 {
		return nil, errors.NewValidationError("NEWS_MAX_RETRIES", "must not be negative", cfg.News.MaxRetries)
	}
	if cfg.Analyst.MaxQueryRetries < 0 {
		return nil, errors.NewValidationError("ANALYST_MAX_QUERY_RETRIES", "must not be negative", cfg.Analyst.MaxQueryRetries)
	}

	return &cfg, nil
}
