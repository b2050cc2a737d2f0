package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spatial_websocket_connections",
		Help: "The number of open websocket connections.",
	})

	streamedCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatial_websocket_streamed_candidates_total",
		Help: "The number of candidates streamed over websocket connections.",
	})
)
