// Package metrics provides observability hooks for site builds. The dev
// server exposes them at /metrics; plain builds use the no-op recorder.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder defines the build metric hooks. Implementations must tolerate
// nil receivers so callers can inject the recorder optionally.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(success bool)
	SetPostCount(n int)
	SetPageCount(n int)
	IncRebuildTrigger(reason string)
}

// NoopRecorder is the default Recorder when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(bool)               {}
func (NoopRecorder) SetPostCount(int)                   {}
func (NoopRecorder) SetPageCount(int)                   {}
func (NoopRecorder) IncRebuildTrigger(string)           {}

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	postCount       prom.Gauge
	pageCount       prom.Gauge
	rebuildTriggers *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the build metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogmore",
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogmore",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		postCount: prom.NewGauge(prom.GaugeOpts{
			Namespace: "blogmore",
			Name:      "posts",
			Help:      "Number of posts in the last successful build",
		}),
		pageCount: prom.NewGauge(prom.GaugeOpts{
			Namespace: "blogmore",
			Name:      "pages",
			Help:      "Number of standalone pages in the last successful build",
		}),
		rebuildTriggers: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogmore",
			Name:      "rebuild_triggers_total",
			Help:      "Rebuilds triggered by the dev server watcher, by reason",
		}, []string{"reason"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.postCount, pr.pageCount, pr.rebuildTriggers)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(success bool) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "success"
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPostCount(n int) {
	if p == nil || p.postCount == nil {
		return
	}
	p.postCount.Set(float64(n))
}

func (p *PrometheusRecorder) SetPageCount(n int) {
	if p == nil || p.pageCount == nil {
		return
	}
	p.pageCount.Set(float64(n))
}

func (p *PrometheusRecorder) IncRebuildTrigger(reason string) {
	if p == nil || p.rebuildTriggers == nil {
		return
	}
	p.rebuildTriggers.WithLabelValues(reason).Inc()
}

// HTTPHandler returns an http.Handler serving the registry's metrics.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
