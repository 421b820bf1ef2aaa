package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New()
	c.MustRegister(reg)

	c.ObserveRender("plain", true, 5*time.Millisecond)
	c.ObserveRender("plain", false, time.Millisecond)
	c.ObserveDiagram("d2", nil)
	c.ObserveDiagram("mermaid", errors.New("boom"))
	c.ObserveCache(true)
	c.ObserveCache(false)
	c.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Renders.WithLabelValues("plain", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Renders.WithLabelValues("plain", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Diagrams.WithLabelValues("mermaid", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("miss")))

	n, err := testutil.GatherAndCount(reg, "geekppt_render_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilCollectors(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveRender("plain", true, time.Second)
		c.ObserveDiagram("d2", nil)
		c.ObserveCache(true)
	})
}
