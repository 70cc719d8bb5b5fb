package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// EstimateComputeTotal counts estimate computations by entry point and result.
	EstimateComputeTotal *prometheus.CounterVec
	// EstimateComputeDuration records engine computation latency in milliseconds.
	EstimateComputeDuration prometheus.Histogram
	// EstimateWebhookTotal tracks estimate webhook delivery outcomes.
	EstimateWebhookTotal *prometheus.CounterVec
	// CatalogPublishTotal counts catalog publish attempts by result.
	CatalogPublishTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		EstimateComputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_compute_total",
			Help:      "Count of estimate computations by entry point and result.",
		}, []string{"entry", "result"})
		EstimateComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_compute_duration_ms",
			Help:      "Estimate engine computation latency in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		EstimateWebhookTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_webhook_total",
			Help:      "Count of estimate webhook delivery outcomes.",
		}, []string{"result"})
		CatalogPublishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_publish_total",
			Help:      "Count of catalog publish attempts by result.",
		}, []string{"result"})

		reg.MustRegister(
			EstimateComputeTotal,
			EstimateComputeDuration,
			EstimateWebhookTotal,
			CatalogPublishTotal,
		)
	})
}
