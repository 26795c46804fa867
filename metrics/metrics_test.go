package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/dpx/recomb"
)

func TestObserve(t *testing.T) {
	c := New()
	c.Observe(recomb.Result{Value: 12, Stats: recomb.Stats{NbDiffVars: 6, Treewidth: 2, NbTableEntries: 10}}, time.Millisecond, nil)
	c.Observe(recomb.Result{Value: 30, Stats: recomb.Stats{NbDiffVars: 3, Treewidth: 1, NbTableEntries: 4}}, time.Millisecond, nil)
	c.Observe(recomb.Result{Value: 7, Stats: recomb.Stats{Treewidth: -1}}, time.Microsecond, nil)
	c.Observe(recomb.Result{}, 0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.total.WithLabelValues(Succeeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.total.WithLabelValues(Identical)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.total.WithLabelValues(Failed)))
	assert.Equal(t, 30.0, testutil.ToFloat64(c.bestValue))
	n, err := testutil.GatherAndCount(c.registry)
	require.NoError(t, err)
	assert.Equal(t, 8, n, "3 outcomes, 4 histograms and a gauge")
}

func TestWriteText(t *testing.T) {
	c := New()
	c.Observe(recomb.Result{Value: 5, Stats: recomb.Stats{NbDiffVars: 2, Treewidth: 1, NbTableEntries: 2}}, time.Millisecond, nil)
	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, `dpx_recombinations_total{outcome="succeeded"} 1`)
	assert.Contains(t, out, "# TYPE dpx_treewidth histogram")
	assert.Contains(t, out, "dpx_best_value 5")
}
