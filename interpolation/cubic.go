package interpolation

import "math"

// cubic is a natural cubic spline: zero second derivative at both ends.
type cubic struct {
	points
	b, c, d []float64
	prim    []float64
}

func newCubic(p points) *cubic {
	n := len(p.xs)
	h := make([]float64, n-1)
	for j := range h {
		h[j] = p.xs[j+1] - p.xs[j]
	}

	// Second derivatives m solve a tridiagonal system with m[0] = m[n-1] = 0.
	m := make([]float64, n)
	if n > 2 {
		sub := make([]float64, n)
		diag := make([]float64, n)
		sup := make([]float64, n)
		rhs := make([]float64, n)
		for i := 1; i < n-1; i++ {
			sub[i] = h[i-1]
			diag[i] = 2 * (h[i-1] + h[i])
			sup[i] = h[i]
			rhs[i] = 6 * ((p.ys[i+1]-p.ys[i])/h[i] - (p.ys[i]-p.ys[i-1])/h[i-1])
		}
		// Thomas algorithm over the interior rows.
		for i := 2; i < n-1; i++ {
			w := sub[i] / diag[i-1]
			diag[i] -= w * sup[i-1]
			rhs[i] -= w * rhs[i-1]
		}
		m[n-2] = rhs[n-2] / diag[n-2]
		for i := n - 3; i >= 1; i-- {
			m[i] = (rhs[i] - sup[i]*m[i+1]) / diag[i]
		}
	}

	s := &cubic{
		points: p,
		b:      make([]float64, n-1),
		c:      make([]float64, n-1),
		d:      make([]float64, n-1),
		prim:   make([]float64, n),
	}
	for j := 0; j < n-1; j++ {
		s.b[j] = (p.ys[j+1]-p.ys[j])/h[j] - h[j]*(2*m[j]+m[j+1])/6
		s.c[j] = m[j] / 2
		s.d[j] = (m[j+1] - m[j]) / (6 * h[j])
		s.prim[j+1] = s.prim[j] + s.segmentIntegral(j, h[j])
	}
	return s
}

func (s *cubic) segmentIntegral(j int, dx float64) float64 {
	return dx * (s.ys[j] + dx*(s.b[j]/2+dx*(s.c[j]/3+dx*s.d[j]/4)))
}

func (s *cubic) Value(x float64) float64 {
	j := s.segment(x)
	dx := x - s.xs[j]
	return s.ys[j] + dx*(s.b[j]+dx*(s.c[j]+dx*s.d[j]))
}

func (s *cubic) Derivative(x float64) float64 {
	j := s.segment(x)
	dx := x - s.xs[j]
	return s.b[j] + dx*(2*s.c[j]+3*dx*s.d[j])
}

func (s *cubic) Primitive(x float64) float64 {
	j := s.segment(x)
	return s.prim[j] + s.segmentIntegral(j, x-s.xs[j])
}

// logCubic is a natural cubic spline on log(y).
type logCubic struct {
	points
	inner *cubic
}

func newLogCubic(p points) *logCubic {
	logs := make([]float64, len(p.ys))
	for i, y := range p.ys {
		logs[i] = math.Log(y)
	}
	return &logCubic{points: p, inner: newCubic(points{xs: p.xs, ys: logs})}
}

func (l *logCubic) Value(x float64) float64 {
	return math.Exp(l.inner.Value(x))
}

func (l *logCubic) Derivative(x float64) float64 {
	return l.Value(x) * l.inner.Derivative(x)
}

// Primitive uses five-point Gauss-Legendre quadrature on each segment.
func (l *logCubic) Primitive(x float64) float64 {
	j := l.segment(x)
	var sum float64
	for k := 0; k < j; k++ {
		sum += gaussLegendre(l.Value, l.xs[k], l.xs[k+1])
	}
	return sum + gaussLegendre(l.Value, l.xs[j], x)
}

var (
	glNodes   = [5]float64{-0.9061798459386640, -0.5384693101056831, 0, 0.5384693101056831, 0.9061798459386640}
	glWeights = [5]float64{0.2369268850561891, 0.4786286704993665, 0.5688888888888889, 0.4786286704993665, 0.2369268850561891}
)

func gaussLegendre(f func(float64) float64, a, b float64) float64 {
	half, mid := (b-a)/2, (a+b)/2
	var sum float64
	for i, t := range glNodes {
		sum += glWeights[i] * f(mid+half*t)
	}
	return half * sum
}
