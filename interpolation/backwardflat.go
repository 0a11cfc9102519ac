package interpolation

// backwardFlat holds ys[k] over (xs[k-1], xs[k]]; below xs[0] it returns ys[0] and beyond the
// last point it keeps the last value.
type backwardFlat struct {
	points
	prim []float64
}

func newBackwardFlat(p points) *backwardFlat {
	n := len(p.xs)
	b := &backwardFlat{points: p, prim: make([]float64, n)}
	for k := 1; k < n; k++ {
		b.prim[k] = b.prim[k-1] + (p.xs[k]-p.xs[k-1])*p.ys[k]
	}
	return b
}

func (b *backwardFlat) Value(x float64) float64 {
	if x <= b.xs[0] {
		return b.ys[0]
	}
	n := len(b.xs)
	if x > b.xs[n-1] {
		return b.ys[n-1]
	}
	return b.ys[b.interval(x)]
}

func (b *backwardFlat) Derivative(float64) float64 { return 0 }

func (b *backwardFlat) Primitive(x float64) float64 {
	if x <= b.xs[0] {
		return (x - b.xs[0]) * b.ys[0]
	}
	n := len(b.xs)
	if x > b.xs[n-1] {
		return b.prim[n-1] + (x-b.xs[n-1])*b.ys[n-1]
	}
	k := b.interval(x)
	return b.prim[k-1] + (x-b.xs[k-1])*b.ys[k]
}
