package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NDBCAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surfcast_ndbc_api_calls_total",
			Help: "Total NDBC realtime feed fetches",
		},
		[]string{"buoy", "status"},
	)

	NDBCAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "surfcast_ndbc_api_latency_seconds",
			Help:    "NDBC fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"buoy"},
	)

	CoopsAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surfcast_coops_api_calls_total",
			Help: "Total NOAA CO-OPS prediction fetches",
		},
		[]string{"station", "product", "status"},
	)

	ObservationsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surfcast_observations_ingested_total",
			Help: "Total buoy observations successfully ingested",
		},
		[]string{"buoy"},
	)

	TidePredictionsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surfcast_tide_predictions_ingested_total",
			Help: "Total tide prediction samples successfully ingested",
		},
		[]string{"station"},
	)

	SpotScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surfcast_spot_scores_computed_total",
			Help: "Total spot scores served",
		},
		[]string{"spot"},
	)
)
