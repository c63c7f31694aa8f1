package plan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExclusionsTotal tracks slot exclusions across all sources.
	ExclusionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solartrade_plan_exclusions_total",
		Help: "Total number of slot exclusions applied to the plan",
	})

	// PauseState reports whether the plan is currently paused (1) or active (0).
	PauseState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solartrade_plan_paused",
		Help: "Whether the trading plan is currently paused",
	})

	// ActiveSlots reports the number of slots in the active plan after the
	// latest base-slot refresh.
	ActiveSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solartrade_plan_active_slots",
		Help: "Number of active (non-excluded) slots after the latest refresh",
	})
)
