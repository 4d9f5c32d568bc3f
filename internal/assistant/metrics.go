package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aiops"

var intentsMatched = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assistant",
		Name:      "intents_total",
		Help:      "Total chat messages by matched intent",
	},
	[]string{"intent"},
)
