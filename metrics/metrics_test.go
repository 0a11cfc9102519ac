package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	b, err := New(reg)
	require.NoError(t, err)

	b.ObserveRun("iterative", 3, 120, nil)
	b.ObserveRun("iterative", 100, 5000, errors.New("boom"))
	b.ObserveRun("local", 1, 40, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues("iterative", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues("iterative", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues("local", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(b.passes))

	n, err := testutil.GatherAndCount(reg, "ratecurve_bootstrap_total", "ratecurve_bootstrap_evaluations")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestObserveInvalidation(t *testing.T) {
	t.Parallel()

	b, err := New(nil)
	require.NoError(t, err)
	b.ObserveInvalidation()
	b.ObserveInvalidation()
	assert.Equal(t, 2.0, testutil.ToFloat64(b.invalidations))
}

func TestRegisteringTwiceSharesCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.ObserveInvalidation()
	second.ObserveInvalidation()
	assert.Equal(t, 2.0, testutil.ToFloat64(first.invalidations))
}

func TestNilIsNoop(t *testing.T) {
	t.Parallel()

	var b *Bootstrap
	assert.NotPanics(t, func() {
		b.ObserveRun("iterative", 1, 1, nil)
		b.ObserveInvalidation()
	})
}
