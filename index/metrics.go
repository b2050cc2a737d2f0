package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spatial_datasets",
		Help: "The number of datasets currently held in the store.",
	})

	indexedElements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatial_indexed_elements_total",
		Help: "The total number of elements indexed since start.",
	})
)
