package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates underwriting and ingestion metrics on its own
// registry. A nil *Collector is a no-op so components can run without
// metrics wired.
type Collector struct {
	registry          *prometheus.Registry
	decisions         *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	installmentAmount prometheus.Histogram
	ingestedRecords   *prometheus.CounterVec
	ingestionErrors   prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		decisions: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "underwriting_decisions_total",
			Help: "Underwriting decisions by outcome",
		}, []string{"outcome"}),
		rejections: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "underwriting_rejections_total",
			Help: "Underwriting rejections by reason",
		}, []string{"reason"}),
		installmentAmount: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "underwriting_approved_installment",
			Help:    "Monthly installment of approved loans",
			Buckets: prometheus.ExponentialBuckets(1000, 2, 12),
		}),
		ingestedRecords: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ingestion_records_total",
			Help: "Ingested records by kind and action",
		}, []string{"kind", "action"}),
		ingestionErrors: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ingestion_record_errors_total",
			Help: "Ingestion rows skipped due to errors",
		}),
	}
}

// Handler exposes the collector's registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveDecision(approved bool, message string) {
	if c == nil {
		return
	}
	if approved {
		c.decisions.WithLabelValues("approved").Inc()
		return
	}
	c.decisions.WithLabelValues("rejected").Inc()
	c.rejections.WithLabelValues(message).Inc()
}

func (c *Collector) ObserveInstallment(amount float64) {
	if c == nil {
		return
	}
	c.installmentAmount.Observe(amount)
}

func (c *Collector) AddIngested(kind, action string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.ingestedRecords.WithLabelValues(kind, action).Add(float64(n))
}

func (c *Collector) AddIngestionErrors(n int) {
	if c == nil || n == 0 {
		return
	}
	c.ingestionErrors.Add(float64(n))
}
