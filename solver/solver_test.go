package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/solver"
)

type rootFinder interface {
	Solve(f solver.Func, accuracy, guess, xMin, xMax float64) (solver.Result, error)
}

func finders() map[string]rootFinder {
	return map[string]rootFinder{
		"brent":  solver.Brent{MaxEvaluations: 100},
		"secant": solver.Secant{MaxEvaluations: 100},
	}
}

func TestSolversFindRoots(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		f          solver.Func
		guess      float64
		lo, hi     float64
		want       float64
		withinEval int
	}{
		{"cubic", func(x float64) (float64, error) { return x*x*x - 2*x - 5, nil }, 2, 1, 3, 2.0945514815423265, 30},
		{"discount", func(x float64) (float64, error) { return math.Exp(-0.05*10) - x, nil }, 0.9, 0.1, 1.5, math.Exp(-0.5), 30},
		{"flat", func(x float64) (float64, error) { return math.Atan(x - 0.3), nil }, -0.9, -1, 1, 0.3, 60},
	}
	for name, s := range finders() {
		for _, tc := range cases {
			res, err := s.Solve(tc.f, 1e-12, tc.guess, tc.lo, tc.hi)
			require.NoError(t, err, "%s/%s", name, tc.name)
			assert.InDelta(t, tc.want, res.Root, 1e-11, "%s/%s", name, tc.name)
			assert.LessOrEqual(t, res.Evaluations, tc.withinEval, "%s/%s", name, tc.name)
		}
	}
}

func TestSolversReportFailures(t *testing.T) {
	t.Parallel()

	for name, s := range finders() {
		_, err := s.Solve(func(x float64) (float64, error) { return x*x + 1, nil }, 1e-12, 0, -1, 1)
		require.ErrorIs(t, err, solver.ErrNotBracketed, name)
		var se *solver.Error
		require.True(t, errors.As(err, &se), name)
		assert.Equal(t, 2, se.Evaluations, name)

		_, err = s.Solve(func(x float64) (float64, error) { return x, nil }, 1e-12, 2, -1, 1)
		require.ErrorIs(t, err, solver.ErrBounds, name)

		boom := errors.New("boom")
		_, err = s.Solve(func(x float64) (float64, error) { return 0, boom }, 1e-12, 0, -1, 1)
		require.ErrorIs(t, err, boom, name)
		assert.False(t, errors.As(err, &se), name)
	}

	tight := solver.Brent{MaxEvaluations: 4}
	_, err := tight.Solve(func(x float64) (float64, error) { return x*x*x - 2*x - 5, nil }, 1e-15, 2, 1, 3)
	require.ErrorIs(t, err, solver.ErrMaxEvaluations)
}

func TestBrentExpandsFromGuess(t *testing.T) {
	t.Parallel()

	// Both roots share the sign at the bounds, so only a search from the guess finds them.
	twin := func(x float64) (float64, error) { return x*x - 0.25, nil }
	_, err := solver.Brent{}.Solve(twin, 1e-12, 0.4, -1, 1)
	require.ErrorIs(t, err, solver.ErrNotBracketed)

	s := solver.Brent{MaxEvaluations: 100, Step: 0.01}
	for guess, want := range map[float64]float64{0.4: 0.5, -0.3: -0.5, 1: 0.5, -1: -0.5} {
		res, err := s.Solve(twin, 1e-12, guess, -1, 1)
		require.NoError(t, err, guess)
		assert.InDelta(t, want, res.Root, 1e-11, guess)
	}

	res, err := s.Solve(func(x float64) (float64, error) { return math.Exp(-0.05*10) - x, nil }, 1e-12, 0.6, 0.1, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.5), res.Root, 1e-11)
	assert.LessOrEqual(t, res.Evaluations, 30)

	_, err = s.Solve(func(x float64) (float64, error) { return x*x + 1, nil }, 1e-12, 0, -1, 1)
	require.ErrorIs(t, err, solver.ErrNotBracketed)

	_, err = solver.Brent{MaxEvaluations: 3, Step: 0.01}.Solve(twin, 1e-12, 0.4, -1, 1)
	require.ErrorIs(t, err, solver.ErrMaxEvaluations)
	var se *solver.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Evaluations)
}
