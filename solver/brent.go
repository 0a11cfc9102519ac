package solver

import "math"

const eps = 2.220446049250313e-16

// Brent is a bracketed inverse-quadratic / bisection solver. The search starts from the
// guess, so a good warm start saves evaluations.
type Brent struct {
	MaxEvaluations int
	// Step, when positive, grows the bracket outward from the guess in steps of this
	// size instead of evaluating the bounds. The root nearest the guess is found even
	// when f has the same sign at both bounds.
	Step float64
}

// Solve finds x in [xMin, xMax] with |x - root| below accuracy.
func (b Brent) Solve(f Func, accuracy, guess, xMin, xMax float64) (Result, error) {
	if err := checkBounds(guess, xMin, xMax); err != nil {
		return Result{}, err
	}
	c := &counter{f: f, max: budget(b.MaxEvaluations, 100)}
	accuracy = math.Max(accuracy, eps)

	var (
		root, froot, hi, fhi float64
		found                bool
		err                  error
	)
	if b.Step > 0 {
		root, froot, hi, fhi, found, err = expand(c, guess, b.Step, xMin, xMax)
	} else {
		root, froot, hi, fhi, found, err = bracket(c, guess, xMin, xMax)
	}
	if err != nil {
		return c.fail(err)
	}
	if found {
		return c.done(root, froot)
	}

	// root is the best estimate, hi the contrapoint and prev the previous iterate.
	prev, fprev := hi, fhi
	d := root - prev
	e := d
	for {
		if (froot > 0 && fhi > 0) || (froot < 0 && fhi < 0) {
			hi, fhi = prev, fprev
			d = root - prev
			e = d
		}
		if math.Abs(fhi) < math.Abs(froot) {
			prev, root, hi = root, hi, root
			fprev, froot, fhi = froot, fhi, froot
		}

		tol := 2*eps*math.Abs(root) + 0.5*accuracy
		mid := (hi - root) / 2
		if math.Abs(mid) <= tol || froot == 0 {
			return c.done(root, froot)
		}

		if math.Abs(e) >= tol && math.Abs(fprev) > math.Abs(froot) {
			var p, q float64
			s := froot / fprev
			if prev == hi {
				p = 2 * mid * s
				q = 1 - s
			} else {
				q = fprev / fhi
				r := froot / fhi
				p = s * (2*mid*q*(q-r) - (root-prev)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*mid*q - math.Abs(tol*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = mid
				e = d
			}
		} else {
			d = mid
			e = d
		}

		prev, fprev = root, froot
		if math.Abs(d) > tol {
			root += d
		} else {
			root += math.Copysign(tol, mid)
		}
		if froot, err = c.eval(root); err != nil {
			return c.fail(err)
		}
	}
}

func budget(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
