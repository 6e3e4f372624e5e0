package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActivationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "member_activations_total",
			Help: "Members activated by confirmed payments",
		},
	)

	CommissionsPostedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commissions_posted_total",
			Help: "Commission ledger entries posted",
		},
	)

	PinsConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_pins_consumed_total",
			Help: "Activation PINs consumed at registration",
		},
	)
)
