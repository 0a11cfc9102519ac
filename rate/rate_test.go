package rate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/rate"
)

func TestImpliedRateInvertsCompoundFactor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		comp rate.Compounding
		freq rate.Frequency
		t    float64
	}{
		{rate.Simple, rate.Annual, 0.5},
		{rate.Compounded, rate.Semiannual, 3.2},
		{rate.Continuous, rate.NoFrequency, 7},
		{rate.SimpleThenCompounded, rate.Quarterly, 0.2},
		{rate.SimpleThenCompounded, rate.Quarterly, 2},
		{rate.CompoundedThenSimple, rate.Annual, 0.7},
		{rate.CompoundedThenSimple, rate.Annual, 1.5},
	}
	for _, tc := range cases {
		ir, err := rate.New(0.0437, daycount.Actual365Fixed, tc.comp, tc.freq)
		require.NoError(t, err)
		back, err := rate.ImpliedRate(ir.CompoundFactor(tc.t), daycount.Actual365Fixed, tc.comp, tc.freq, tc.t)
		require.NoError(t, err)
		assert.InDelta(t, 0.0437, back.Rate, 1e-14, "%s t=%g", tc.comp, tc.t)
	}
}

func TestEquivalentRate(t *testing.T) {
	t.Parallel()

	ir, err := rate.New(0.05, daycount.Actual365Fixed, rate.Compounded, rate.Annual)
	require.NoError(t, err)
	cont, err := ir.EquivalentRate(rate.Continuous, rate.NoFrequency, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1.05), cont.Rate, 1e-15)
	assert.InDelta(t, 1/1.05, ir.DiscountFactor(1), 1e-15)
}

func TestImpliedRateErrors(t *testing.T) {
	t.Parallel()

	_, err := rate.New(0.01, daycount.Actual360, rate.Compounded, rate.NoFrequency)
	require.ErrorIs(t, err, rate.ErrFrequency)

	_, err = rate.ImpliedRate(1.01, daycount.Actual360, rate.Continuous, rate.NoFrequency, 0)
	require.Error(t, err)

	_, err = rate.ImpliedRate(-0.5, daycount.Actual360, rate.Continuous, rate.NoFrequency, 1)
	require.Error(t, err)

	zero, err := rate.ImpliedRate(1, daycount.Actual360, rate.Simple, rate.Annual, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.Rate)
}
