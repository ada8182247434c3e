// Package telemetry owns the Prometheus collectors of the service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg        *prometheus.Registry
	duration   *prometheus.HistogramVec
	analyzed   *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	snapshot   prometheus.Gauge
	ingestRuns *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leadpulse_aggregation_duration_seconds",
			Help:    "Time spent computing an analytics view.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"view"}),
		analyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_leads_analyzed_total",
			Help: "Leads fed into an analytics view.",
		}, []string{"view"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_leads_skipped_total",
			Help: "Leads a view could not use.",
		}, []string{"view", "reason"}),
		snapshot: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leadpulse_snapshot_leads",
			Help: "Leads in the current snapshot.",
		}),
		ingestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_ingest_runs_total",
			Help: "Snapshot loads by source and result.",
		}, []string{"source", "result"}),
	}
	c.reg.MustRegister(c.duration, c.analyzed, c.skipped, c.snapshot, c.ingestRuns)
	return c
}

// ObserveView records one computation of view over n leads.
func (c *Collector) ObserveView(view string, n int, took time.Duration) {
	c.duration.WithLabelValues(view).Observe(took.Seconds())
	c.analyzed.WithLabelValues(view).Add(float64(n))
}

func (c *Collector) Skipped(view, reason string, n int) {
	if n > 0 {
		c.skipped.WithLabelValues(view, reason).Add(float64(n))
	}
}

// Ingest records a snapshot load; err == nil counts as ok.
func (c *Collector) Ingest(source string, leads int, err error) {
	if err != nil {
		c.ingestRuns.WithLabelValues(source, "error").Inc()
		return
	}
	c.ingestRuns.WithLabelValues(source, "ok").Inc()
	c.snapshot.Set(float64(leads))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
