package healing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aiops"

var healingActions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "healing",
		Name:      "actions_total",
		Help:      "Total simulated self-healing actions by action",
	},
	[]string{"action"},
)
