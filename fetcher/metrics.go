package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstitch_fetch_requests_total",
		Help: "The total number of upstream GET requests issued",
	})

	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedstitch_fetch_errors_total",
		Help: "Upstream fetch failures by kind (transport, api, decode)",
	}, []string{"kind"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedstitch_fetch_duration_seconds",
		Help:    "Duration of upstream GET requests including body read",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // Start at 5ms, double each bucket
	})
)
