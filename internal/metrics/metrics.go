// Package metrics exposes prometheus collectors for rendering.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups the render metrics. A nil *Collectors is valid and
// records nothing.
type Collectors struct {
	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	Diagrams       *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
}

// New builds unregistered collectors.
func New() *Collectors {
	return &Collectors{
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geekppt_renders_total",
				Help: "Total number of slide renders",
			},
			[]string{"plugin", "outcome"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geekppt_render_duration_seconds",
				Help:    "Duration of slide renders",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"plugin"},
		),
		Diagrams: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geekppt_diagrams_total",
				Help: "Total number of diagram blocks rendered",
			},
			[]string{"lang", "outcome"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geekppt_cache_lookups_total",
				Help: "Render cache lookups",
			},
			[]string{"result"},
		),
	}
}

// MustRegister registers every collector with reg.
func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.Renders, c.RenderDuration, c.Diagrams, c.CacheLookups)
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// ObserveRender records one render.
func (c *Collectors) ObserveRender(plugin string, ok bool, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Renders.WithLabelValues(plugin, outcome(ok)).Inc()
	c.RenderDuration.WithLabelValues(plugin).Observe(elapsed.Seconds())
}

// ObserveDiagram records one diagram block.
func (c *Collectors) ObserveDiagram(lang string, err error) {
	if c == nil {
		return
	}
	c.Diagrams.WithLabelValues(lang, outcome(err == nil)).Inc()
}

// ObserveCache records a cache lookup.
func (c *Collectors) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}
