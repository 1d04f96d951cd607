package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docfinder", Name: "dispatch_total", Help: "Number of dispatched /api requests by action and result status."},
		[]string{"action", "status"},
	)
	ExtractionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docfinder", Name: "extraction_failures_total", Help: "Number of failed keyword extraction calls."},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docfinder", Name: "store_operations_total", Help: "Number of row store operations by backend, operation and result."},
		[]string{"backend", "op", "result"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docfinder", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docfinder", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DispatchTotal)
	reg.MustRegister(ExtractionFailures)
	reg.MustRegister(StoreOperations)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}

// ObserveStore records the outcome of a row store call.
func ObserveStore(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(backend, op, result).Inc()
}
