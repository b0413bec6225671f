package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	TripsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_started_total",
		Help: "Total number of trips dispatched",
	})

	TripsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_finished_total",
		Help: "Total number of trips settled",
	})

	TripsEmptied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_emptied_total",
		Help: "Total number of trips closed through the empty-truck recovery path",
	})

	// CashVariance observes deff (received minus expected) per settled trip,
	// in MAD. Negative buckets catch shortfalls.
	CashVariance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trip_cash_variance_mad",
		Help:    "Cash variance (received - expected) per settled trip in MAD",
		Buckets: []float64{-1000, -500, -200, -100, -50, -10, 0, 10, 50, 100},
	})
)
