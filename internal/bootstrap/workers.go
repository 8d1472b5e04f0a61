package bootstrap

import (
	"github.com/ahmadnadir/gasnadir/internal/adapters/config"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/workers"
	newsworker "github.com/ahmadnadir/gasnadir/internal/workers/news"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// provideWorkers registers the background workers. archive and publisher
// may be nil.
func provideWorkers(
	cfg *config.Config,
	fetcher newsworker.FeedFetcher,
	archive news.Archive,
	publisher newsworker.Publisher,
	log *logger.Logger,
) *workers.Scheduler {
	scheduler := workers.NewScheduler(workers.DefaultShutdownTimeout)

	collector := newsworker.NewCollector(
		cfg.News.RSSFeeds,
		fetcher,
		archive,
		publisher,
		cfg.Workers.RSSCollectorInterval,
		cfg.Workers.RSSCollectorEnabled,
	)
	scheduler.RegisterWorker(collector)

	if !collector.Enabled() {
		log.Infow("RSS collector disabled",
			"feeds", len(cfg.News.RSSFeeds),
			"archive", archive != nil,
			"enabled_by_config", cfg.Workers.RSSCollectorEnabled,
		)
	}

	return scheduler
}
