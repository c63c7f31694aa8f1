package publish

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PublishesTotal tracks completed publish operations.
	PublishesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_publishes_total",
		Help: "Total number of completed publish operations",
	})

	// PublishedTradesTotal tracks trades submitted across all publishes.
	PublishedTradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_published_trades_total",
		Help: "Total number of trades included in publish submissions",
	})

	// RemoteFailuresTotal tracks remote submission failures (the local
	// record is still written when these occur).
	RemoteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_publish_remote_failures_total",
		Help: "Total number of failed remote trade submissions",
	})

	// PublishDurationSeconds tracks publish pipeline latency.
	PublishDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "solartrade_publish_duration_seconds",
		Help:    "Duration of the publish pipeline",
		Buckets: prometheus.DefBuckets,
	})
)
