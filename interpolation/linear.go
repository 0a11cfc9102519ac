package interpolation

import "math"

type linear struct {
	points
	slopes []float64
	prim   []float64 // integral from xs[0] to xs[j]
}

func newLinear(p points) *linear {
	n := len(p.xs)
	l := &linear{points: p, slopes: make([]float64, n-1), prim: make([]float64, n)}
	for j := 0; j < n-1; j++ {
		h := p.xs[j+1] - p.xs[j]
		l.slopes[j] = (p.ys[j+1] - p.ys[j]) / h
		l.prim[j+1] = l.prim[j] + h*(p.ys[j]+p.ys[j+1])/2
	}
	return l
}

func (l *linear) Value(x float64) float64 {
	j := l.segment(x)
	return l.ys[j] + (x-l.xs[j])*l.slopes[j]
}

func (l *linear) Derivative(x float64) float64 {
	return l.slopes[l.segment(x)]
}

func (l *linear) Primitive(x float64) float64 {
	j := l.segment(x)
	dx := x - l.xs[j]
	return l.prim[j] + dx*(l.ys[j]+0.5*dx*l.slopes[j])
}

// logLinear is linear in log(y).
type logLinear struct {
	points
	inner *linear
}

func newLogLinear(p points) *logLinear {
	logs := make([]float64, len(p.ys))
	for i, y := range p.ys {
		logs[i] = math.Log(y)
	}
	return &logLinear{points: p, inner: newLinear(points{xs: p.xs, ys: logs})}
}

func (l *logLinear) Value(x float64) float64 {
	return math.Exp(l.inner.Value(x))
}

func (l *logLinear) Derivative(x float64) float64 {
	return l.Value(x) * l.inner.Derivative(x)
}

func (l *logLinear) Primitive(x float64) float64 {
	j := l.segment(x)
	var sum float64
	for k := 0; k < j; k++ {
		sum += expSegment(l.inner.ys[k], l.inner.slopes[k], l.xs[k+1]-l.xs[k])
	}
	return sum + expSegment(l.inner.ys[j], l.inner.slopes[j], x-l.xs[j])
}

// expSegment integrates exp(a + b*s) for s in [0, dx].
func expSegment(a, b, dx float64) float64 {
	if math.Abs(b*dx) < 1e-10 {
		return math.Exp(a) * dx * (1 + 0.5*b*dx)
	}
	return math.Exp(a) * math.Expm1(b*dx) / b
}
