package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the extension codec.
type Collector struct {
	// Builder metrics
	RecordsBuilt *prometheus.CounterVec
	BytesEncoded prometheus.Counter
	BuildErrors  *prometheus.CounterVec

	// Matcher metrics
	MatchAttempts  *prometheus.CounterVec
	MatchSuccesses *prometheus.CounterVec
	MatchFailures  *prometheus.CounterVec
	DecodeFailures *prometheus.CounterVec
}

// NewCollector creates a metrics collector registered against reg. A nil
// registerer falls back to the default Prometheus registry.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if namespace == "" {
		namespace = "amqpex"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		RecordsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_built_total",
			Help:      "Total number of extension records built, by record type",
		}, []string{"record"}),
		BytesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_encoded_total",
			Help:      "Total encoded record bytes produced by builders",
		}),
		BuildErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_errors_total",
			Help:      "Total builder failures, by record type",
		}, []string{"record"}),
		MatchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_attempts_total",
			Help:      "Total matcher invocations, by record type",
		}, []string{"record"}),
		MatchSuccesses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_successes_total",
			Help:      "Total successful matches, by record type",
		}, []string{"record"}),
		MatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_failures_total",
			Help:      "Total configured-field match failures, by record type",
		}, []string{"record"}),
		DecodeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Total candidate regions that failed to decode, by record type",
		}, []string{"record"}),
	}
}
