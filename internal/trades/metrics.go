package trades

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsPublished tracks how many times a plan was marked published.
	RecordsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_records_published_total",
		Help: "Total number of times the published-trades record was marked published",
	})

	// PersistFailuresTotal tracks swallowed repository write failures.
	PersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_record_persist_failures_total",
		Help: "Total number of swallowed published-trades persistence failures",
	})
)
