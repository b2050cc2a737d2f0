package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "spatial_http_queries_total",
	Help: "The number of spatial queries served over HTTP.",
}, []string{"kind"})

func queryLabels(kind string) prometheus.Labels {
	return prometheus.Labels{"kind": kind}
}
