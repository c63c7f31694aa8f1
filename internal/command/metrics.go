package command

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal tracks interpreted commands by the rule that fired.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solartrade_commands_total",
			Help: "Total number of interpreted plan commands",
		},
		[]string{"rule"},
	)
)
