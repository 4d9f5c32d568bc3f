package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aiops"

var selfHealingLogEntries = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "self_healing_log_entries",
		Help:      "Number of entries in the self-healing log",
	},
)
