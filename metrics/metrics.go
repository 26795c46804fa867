// Package metrics exposes prometheus metrics about recombinations.
package metrics

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/crillab/dpx/recomb"
)

const (
	OutcomeLabel = "outcome"
	Succeeded    = "succeeded"
	Identical    = "identical"
	Failed       = "failed"
)

// A Collector gathers statistics about recombinations in its own registry.
// It is safe for concurrent use.
type Collector struct {
	registry  *prometheus.Registry
	total     *prometheus.CounterVec
	diffVars  prometheus.Histogram
	treewidth prometheus.Histogram
	tableSize prometheus.Histogram
	duration  prometheus.Histogram
	bestValue prometheus.Gauge

	mu      sync.Mutex
	best    float64
	hasBest bool
}

// New returns a collector whose metrics are registered in a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpx_recombinations_total",
				Help: "Number of recombinations, by outcome",
			},
			[]string{OutcomeLabel},
		),
		diffVars: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dpx_diff_vars",
			Help:    "Number of variables the parents differ on",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		treewidth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dpx_treewidth",
			Help:    "Treewidth of the junction tree of each recombination",
			Buckets: prometheus.LinearBuckets(0, 1, 16),
		}),
		tableSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dpx_table_entries",
			Help:    "Total number of entries of the cluster tables of each recombination",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dpx_recombination_duration_seconds",
			Help:    "Duration of each recombination",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		}),
		bestValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dpx_best_value",
			Help: "Best offspring value seen so far",
		}),
	}
	c.registry.MustRegister(c.total, c.diffVars, c.treewidth, c.tableSize, c.duration, c.bestValue)
	return c
}

// Registry returns the registry the metrics are registered in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Observe records the outcome of a recombination.
func (c *Collector) Observe(res recomb.Result, elapsed time.Duration, err error) {
	switch {
	case err != nil:
		c.total.WithLabelValues(Failed).Inc()
		return
	case res.Stats.NbDiffVars == 0:
		c.total.WithLabelValues(Identical).Inc()
	default:
		c.total.WithLabelValues(Succeeded).Inc()
		c.treewidth.Observe(float64(res.Stats.Treewidth))
		c.tableSize.Observe(float64(res.Stats.NbTableEntries))
	}
	c.diffVars.Observe(float64(res.Stats.NbDiffVars))
	c.duration.Observe(elapsed.Seconds())
	c.updateBest(res.Value)
}

func (c *Collector) updateBest(val float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasBest && c.best >= val {
		return
	}
	c.best, c.hasBest = val, true
	c.bestValue.Set(val)
}

// WriteText writes all metrics in the prometheus text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	mfs, err := c.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "could not gather metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "could not write metric %s", mf.GetName())
		}
	}
	return nil
}
