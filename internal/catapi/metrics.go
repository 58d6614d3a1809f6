package catapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "breeds_client",
			Name:      "requests_total",
			Help:      "Catalog API calls by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "breeds_client",
			Name:      "request_duration_seconds",
			Help:      "Wall time from the outbound interceptor to the settled response.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)
