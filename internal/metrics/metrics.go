package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	CodesIssued       *prometheus.CounterVec
	CodeVerifications *prometheus.CounterVec
	Inquiries         *prometheus.CounterVec
	InboxMessages     *prometheus.CounterVec
	Errors            *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			CodesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verification_codes_issued_total",
				Help:      "Total verification codes issued by subject scheme.",
			}, []string{"scheme"}),
			CodeVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "code_verifications_total",
				Help:      "Total code verification attempts by outcome.",
			}, []string{"outcome"}),
			Inquiries: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inquiries_total",
				Help:      "Total inquiry lifecycle events by kind.",
			}, []string{"kind"}),
			InboxMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inbox_messages_total",
				Help:      "Total owner inbox messages posted by type.",
			}, []string{"type"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.CodesIssued,
			metricsInstance.CodeVerifications,
			metricsInstance.Inquiries,
			metricsInstance.InboxMessages,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
