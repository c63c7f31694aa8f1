package forecast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal tracks successful forecast fetches.
	FetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_forecast_fetches_total",
		Help: "Total number of successful forecast fetches",
	})

	// FetchErrorsTotal tracks failed forecast fetches.
	FetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_forecast_fetch_errors_total",
		Help: "Total number of failed forecast fetches",
	})
)
