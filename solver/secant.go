package solver

import "math"

// Secant takes secant steps through the last two iterates and falls back to bisection whenever
// a step leaves the bracket or stops halving. It suits smooth objectives with a close guess.
type Secant struct {
	MaxEvaluations int
}

// Solve finds x in [xMin, xMax] with |x - root| below accuracy.
func (s Secant) Solve(f Func, accuracy, guess, xMin, xMax float64) (Result, error) {
	if err := checkBounds(guess, xMin, xMax); err != nil {
		return Result{}, err
	}
	c := &counter{f: f, max: budget(s.MaxEvaluations, 50)}
	accuracy = math.Max(accuracy, eps)

	x, fx, xp, fp, found, err := bracket(c, guess, xMin, xMax)
	if err != nil {
		return c.fail(err)
	}
	if found {
		return c.done(x, fx)
	}

	// f(neg) < 0 < f(pos)
	neg, pos := x, xp
	if fx > 0 {
		neg, pos = xp, x
	}
	dx := math.Abs(pos - neg)
	dxOld := dx
	for {
		lower, upper := math.Min(neg, pos), math.Max(neg, pos)
		next := math.NaN()
		if fx != fp {
			next = x - fx*(x-xp)/(fx-fp)
		}
		if math.IsNaN(next) || next <= lower || next >= upper || 2*math.Abs(next-x) > dxOld {
			dxOld = dx
			next = 0.5 * (neg + pos)
			dx = math.Abs(next - x)
		} else {
			dxOld = dx
			dx = math.Abs(next - x)
		}

		xp, fp = x, fx
		x = next
		if fx, err = c.eval(x); err != nil {
			return c.fail(err)
		}
		if fx == 0 || dx < accuracy || upper-lower < accuracy {
			return c.done(x, fx)
		}
		if fx < 0 {
			neg = x
		} else {
			pos = x
		}
	}
}
