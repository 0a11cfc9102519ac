package interpolation

// convexMonotone is the Hagan-West forward interpolation. ys[k] for k >= 1 is the average
// (discrete) forward over (xs[k-1], xs[k]]; ys[0] is ignored. The interpolant reproduces
// every average exactly, so integrating it between two nodes gives back the node data.
type convexMonotone struct {
	points
	f    []float64 // instantaneous forward at each node
	prim []float64
}

func newConvexMonotone(p points) *convexMonotone {
	n := len(p.xs) - 1 // number of intervals
	cm := &convexMonotone{points: p, f: make([]float64, n+1), prim: make([]float64, n+1)}
	fd := p.ys
	h := func(k int) float64 { return p.xs[k] - p.xs[k-1] }

	if n == 1 {
		cm.f[0], cm.f[1] = fd[1], fd[1]
	} else {
		for k := 1; k < n; k++ {
			cm.f[k] = (h(k)*fd[k+1] + h(k+1)*fd[k]) / (h(k) + h(k+1))
		}
		cm.f[0] = fd[1] - 0.5*(cm.f[1]-fd[1])
		cm.f[n] = fd[n] - 0.5*(cm.f[n-1]-fd[n])
	}
	for k := 1; k <= n; k++ {
		cm.prim[k] = cm.prim[k-1] + h(k)*fd[k]
	}
	return cm
}

func (cm *convexMonotone) locate(x float64) (k int, u float64) {
	k = cm.interval(x)
	return k, (x - cm.xs[k-1]) / (cm.xs[k] - cm.xs[k-1])
}

func (cm *convexMonotone) Value(x float64) float64 {
	n := len(cm.xs) - 1
	if x < cm.xs[0] {
		return cm.f[0]
	}
	if x > cm.xs[n] {
		return cm.f[n]
	}
	k, u := cm.locate(x)
	g := shape{g0: cm.f[k-1] - cm.ys[k], g1: cm.f[k] - cm.ys[k]}
	return cm.ys[k] + g.value(u)
}

func (cm *convexMonotone) Derivative(x float64) float64 {
	n := len(cm.xs) - 1
	if x < cm.xs[0] || x > cm.xs[n] {
		return 0
	}
	k, u := cm.locate(x)
	g := shape{g0: cm.f[k-1] - cm.ys[k], g1: cm.f[k] - cm.ys[k]}
	return g.derivative(u) / (cm.xs[k] - cm.xs[k-1])
}

func (cm *convexMonotone) Primitive(x float64) float64 {
	n := len(cm.xs) - 1
	if x < cm.xs[0] {
		return (x - cm.xs[0]) * cm.f[0]
	}
	if x > cm.xs[n] {
		return cm.prim[n] + (x-cm.xs[n])*cm.f[n]
	}
	k, u := cm.locate(x)
	hk := cm.xs[k] - cm.xs[k-1]
	g := shape{g0: cm.f[k-1] - cm.ys[k], g1: cm.f[k] - cm.ys[k]}
	return cm.prim[k-1] + hk*(cm.ys[k]*u+g.integral(u))
}

// shape is the zero-mean correction g(u) on [0, 1] with g(0)=g0 and g(1)=g1.
type shape struct {
	g0, g1 float64
}

type sector int

const (
	flat sector = iota
	quadratic
	rightRamp // constant g0, then a quadratic rise to g1
	leftRamp  // quadratic fall from g0, then constant g1
	bowl      // two quadratics meeting at a level between 0 and the ends
	step      // one end is zero: g vanishes inside the interval
)

func (g shape) classify() (sector, float64) {
	g0, g1 := g.g0, g.g1
	switch {
	case g0 == 0 && g1 == 0:
		return flat, 0
	case (g0 < 0 && -0.5*g0 <= g1 && g1 <= -2*g0) || (g0 > 0 && -0.5*g0 >= g1 && g1 >= -2*g0):
		return quadratic, 0
	case (g0 < 0 && g1 > -2*g0) || (g0 > 0 && g1 < -2*g0):
		return rightRamp, (g1 + 2*g0) / (g1 - g0)
	case (g0 > 0 && g1 < 0 && g1 > -0.5*g0) || (g0 < 0 && g1 > 0 && g1 < -0.5*g0):
		return leftRamp, 3 * g1 / (g1 - g0)
	case g0 == 0 || g1 == 0:
		return step, 0
	default:
		return bowl, g1 / (g0 + g1)
	}
}

func sq(x float64) float64   { return x * x }
func cube(x float64) float64 { return x * x * x }

func (g shape) value(u float64) float64 {
	g0, g1 := g.g0, g.g1
	s, eta := g.classify()
	switch s {
	case quadratic:
		return g0*(1-4*u+3*u*u) + g1*(-2*u+3*u*u)
	case rightRamp:
		if u <= eta {
			return g0
		}
		return g0 + (g1-g0)*sq((u-eta)/(1-eta))
	case leftRamp:
		if u < eta {
			return g1 + (g0-g1)*sq((eta-u)/eta)
		}
		return g1
	case bowl:
		a := -g0 * g1 / (g0 + g1)
		if u <= eta {
			return a + (g0-a)*sq((eta-u)/eta)
		}
		return a + (g1-a)*sq((u-eta)/(1-eta))
	case step:
		switch u {
		case 0:
			return g0
		case 1:
			return g1
		}
	}
	return 0
}

func (g shape) derivative(u float64) float64 {
	g0, g1 := g.g0, g.g1
	s, eta := g.classify()
	switch s {
	case quadratic:
		return g0*(-4+6*u) + g1*(-2+6*u)
	case rightRamp:
		if u <= eta {
			return 0
		}
		return 2 * (g1 - g0) * (u - eta) / sq(1-eta)
	case leftRamp:
		if u < eta {
			return -2 * (g0 - g1) * (eta - u) / sq(eta)
		}
		return 0
	case bowl:
		a := -g0 * g1 / (g0 + g1)
		if u <= eta {
			return -2 * (g0 - a) * (eta - u) / sq(eta)
		}
		return 2 * (g1 - a) * (u - eta) / sq(1-eta)
	}
	return 0
}

// integral returns the integral of g over [0, u]; it is zero at u = 1.
func (g shape) integral(u float64) float64 {
	g0, g1 := g.g0, g.g1
	s, eta := g.classify()
	switch s {
	case quadratic:
		return g0*(u-2*u*u+u*u*u) + g1*(-u*u+u*u*u)
	case rightRamp:
		if u <= eta {
			return g0 * u
		}
		return g0*u + (g1-g0)*cube(u-eta)/(3*sq(1-eta))
	case leftRamp:
		if u < eta {
			return g1*u + (g0-g1)*eta/3*(1-cube((eta-u)/eta))
		}
		return g1*u + (g0-g1)*eta/3
	case bowl:
		a := -g0 * g1 / (g0 + g1)
		if u <= eta {
			return a*u + (g0-a)*eta/3*(1-cube((eta-u)/eta))
		}
		return a*u + (g0-a)*eta/3 + (g1-a)*cube(u-eta)/(3*sq(1-eta))
	}
	return 0
}
