package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodcart",
		Subsystem: "geocoder",
		Name:      "requests_total",
		Help:      "Outbound geocoding requests by result (ok, no_match, unavailable)",
	}, []string{"result"})

	AddressCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodcart",
		Subsystem: "address_cache",
		Name:      "lookups_total",
		Help:      "Address cache lookups by result (hit, miss)",
	}, []string{"result"})

	AddressInserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodcart",
		Subsystem: "address_cache",
		Name:      "inserts_total",
		Help:      "Address persistence outcomes (inserted, existing)",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodcart",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodcart",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})
)
