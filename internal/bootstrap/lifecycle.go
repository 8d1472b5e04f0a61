package bootstrap

import (
	"context"
	"sync"
	"time"

	chclient "github.com/ahmadnadir/gasnadir/internal/adapters/clickhouse"
	"github.com/ahmadnadir/gasnadir/internal/adapters/kafka"
	pgclient "github.com/ahmadnadir/gasnadir/internal/adapters/postgres"
	redisclient "github.com/ahmadnadir/gasnadir/internal/adapters/redis"
	"github.com/ahmadnadir/gasnadir/internal/adapters/telegram"
	"github.com/ahmadnadir/gasnadir/internal/api"
	"github.com/ahmadnadir/gasnadir/internal/workers"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Lifecycle manages graceful shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 60 * time.Second,
	}
}

// Shutdown stops components in order: no new requests, workers and
// consumers drained, producer flushed, then logs, errors and databases.
// Databases go last since the other steps may still use them.
func (l *Lifecycle) Shutdown(
	wg *sync.WaitGroup,
	httpServer *api.Server,
	workerScheduler *workers.Scheduler,
	bot *telegram.Bot,
	alertConsumer *kafka.Consumer,
	kafkaProducer *kafka.Producer,
	pgClient *pgclient.Client,
	chClient *chclient.Client,
	redisClient *redisclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	log.Info("[1/8] Stopping HTTP server...")
	if httpServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		if err := httpServer.Shutdown(httpCtx); err != nil {
			log.Errorw("HTTP server shutdown failed", "error", err)
		}
		httpCancel()
	}

	log.Info("[2/8] Stopping background workers...")
	if workerScheduler != nil && workerScheduler.IsRunning() {
		if err := workerScheduler.Stop(); err != nil {
			log.Errorw("Workers shutdown failed", "error", err)
		}
	}

	log.Info("[3/8] Stopping Telegram bot...")
	if bot != nil {
		bot.Stop()
	}

	// closing the reader unblocks ReadMessage before we wait on goroutines
	log.Info("[4/8] Closing Kafka consumers...")
	if alertConsumer != nil {
		if err := alertConsumer.Close(); err != nil {
			log.Errorw("Kafka consumer close failed", "consumer", "telegram_alerts", "error", err)
		}
	}

	log.Info("[5/8] Waiting for goroutines...")
	l.waitForGoroutines(wg, 10*time.Second, log)

	log.Info("[6/8] Closing Kafka producer...")
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Errorw("Kafka producer close failed", "error", err)
		}
	}

	log.Info("[7/8] Flushing error tracker and logs...")
	l.flushErrorTracker(shutdownCtx, errorTracker, log)
	_ = logger.Sync()

	log.Info("[8/8] Closing database connections...")
	l.closeDatabases(pgClient, chClient, redisClient, log)

	log.Info("Graceful shutdown complete")
}

func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("All goroutines finished")
	case <-time.After(timeout):
		log.Warnw("Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

func (l *Lifecycle) flushErrorTracker(ctx context.Context, tracker errors.Tracker, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Errorw("Error tracker flush failed", "error", err)
	}
}

func (l *Lifecycle) closeDatabases(
	pgClient *pgclient.Client,
	chClient *chclient.Client,
	redisClient *redisclient.Client,
	log *logger.Logger,
) {
	var errs errors.MultiError

	if pgClient != nil {
		errs.Add(errors.Wrap(pgClient.Close(), "postgres"))
	}
	if chClient != nil {
		errs.Add(errors.Wrap(chClient.Close(), "clickhouse"))
	}
	if redisClient != nil {
		errs.Add(errors.Wrap(redisClient.Close(), "redis"))
	}

	if errs.HasErrors() {
		log.Errorw("Database close errors", "error", errs.ToError())
		return
	}
	log.Info("Database connections closed")
}
