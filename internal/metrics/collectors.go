package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// CustomCollector collects domain gauges from Postgres at scrape time
type CustomCollector struct {
	log      *logger.Logger
	postgres *sqlx.DB

	totalCustomers *prometheus.Desc
	totalMessages  *prometheus.Desc
	latestVolume   *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector
func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB) *CustomCollector {
	return &CustomCollector{
		log:      log,
		postgres: postgres,

		totalCustomers: prometheus.NewDesc(
			"gasnadir_customers_total",
			"Total number of customers by sector",
			[]string{"sector"}, nil,
		),
		totalMessages: prometheus.NewDesc(
			"gasnadir_chat_messages_total",
			"Total number of stored chat messages by role",
			[]string{"role"}, nil,
		),
		latestVolume: prometheus.NewDesc(
			"gasnadir_latest_month_volume_gj",
			"Gas volume of the latest recorded month by type",
			[]string{"type"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalCustomers
	ch <- c.totalMessages
	ch <- c.latestVolume
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectLabelled(ctx, ch, c.totalCustomers, `
		SELECT sector AS label, COUNT(*)::float8 AS value
		FROM customers
		GROUP BY sector
	`)
	c.collectLabelled(ctx, ch, c.totalMessages, `
		SELECT role AS label, COUNT(*)::float8 AS value
		FROM chat_messages
		GROUP BY role
	`)
	c.collectLabelled(ctx, ch, c.latestVolume, `
		SELECT volume_type AS label, SUM(volume)::float8 AS value
		FROM volume_records
		WHERE (year, month) = (SELECT year, month FROM volume_records ORDER BY year DESC, month DESC LIMIT 1)
		GROUP BY volume_type
	`)
}

func (c *CustomCollector) collectLabelled(ctx context.Context, ch chan<- prometheus.Metric, desc *prometheus.Desc, query string) {
	type row struct {
		Label string  `db:"label"`
		Value float64 `db:"value"`
	}

	var rows []row
	if err := c.postgres.SelectContext(ctx, &rows, query); err != nil {
		c.log.Errorw("Failed to collect metric", "metric", desc.String(), "error", err)
		return
	}

	for _, r := range rows {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, r.Value, r.Label)
	}
}

// RegisterCustomCollector registers the custom collector
func RegisterCustomCollector(collector *CustomCollector) {
	prometheus.MustRegister(collector)
}
