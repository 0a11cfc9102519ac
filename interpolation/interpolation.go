// Package interpolation provides the one-dimensional schemes a piecewise curve interpolates
// its node values with.
package interpolation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTooFewPoints  = errors.New("interpolation: at least two points are required")
	ErrNotIncreasing = errors.New("interpolation: abscissas must be strictly increasing")
	ErrNonPositive   = errors.New("interpolation: log schemes need positive values")
)

// Interpolation is a scheme bound to a set of points. Outside [XMin, XMax] each scheme
// continues its boundary segment; callers that need a different extrapolation handle it
// themselves.
type Interpolation interface {
	Value(x float64) float64
	Derivative(x float64) float64
	// Primitive integrates the interpolant from XMin to x.
	Primitive(x float64) float64
	XMin() float64
	XMax() float64
}

// Locality describes how far a change in one node value propagates.
type Locality int

const (
	// Local schemes move only the segments adjacent to the changed node.
	Local Locality = 0
	// QuasiLocal schemes move the segments within two nodes of the change.
	QuasiLocal Locality = 1
	// Global schemes move every segment.
	Global Locality = -1
)

// Method selects an interpolation scheme.
type Method int

const (
	Linear Method = iota
	LogLinear
	Cubic
	LogCubic
	BackwardFlat
	ConvexMonotone
)

var methodNames = map[Method]string{
	Linear:         "linear",
	LogLinear:      "loglinear",
	Cubic:          "cubic",
	LogCubic:       "logcubic",
	BackwardFlat:   "backwardflat",
	ConvexMonotone: "convexmonotone",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts the names printed by String, ignoring case, dashes and underscores.
func ParseMethod(s string) (Method, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for m, name := range methodNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("interpolation.ParseMethod: unknown method %q", s)
}

// Locality reports how node changes propagate under m.
func (m Method) Locality() Locality {
	switch m {
	case Cubic, LogCubic:
		return Global
	case ConvexMonotone:
		return QuasiLocal
	default:
		return Local
	}
}

// Interpolate binds m to the points. Both slices are copied.
func (m Method) Interpolate(xs, ys []float64) (Interpolation, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interpolation: %d abscissas for %d values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, ErrTooFewPoints
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%g, x[%d]=%g", ErrNotIncreasing, i-1, xs[i-1], i, xs[i])
		}
	}
	p := points{xs: append([]float64(nil), xs...), ys: append([]float64(nil), ys...)}

	switch m {
	case Linear:
		return newLinear(p), nil
	case LogLinear:
		if err := p.requirePositive(); err != nil {
			return nil, err
		}
		return newLogLinear(p), nil
	case Cubic:
		return newCubic(p), nil
	case LogCubic:
		if err := p.requirePositive(); err != nil {
			return nil, err
		}
		return newLogCubic(p), nil
	case BackwardFlat:
		return newBackwardFlat(p), nil
	case ConvexMonotone:
		return newConvexMonotone(p), nil
	}
	return nil, fmt.Errorf("interpolation: unknown method %d", int(m))
}

type points struct {
	xs, ys []float64
}

func (p points) XMin() float64 { return p.xs[0] }
func (p points) XMax() float64 { return p.xs[len(p.xs)-1] }

func (p points) requirePositive() error {
	for i, y := range p.ys {
		if !(y > 0) {
			return fmt.Errorf("%w: y[%d]=%g", ErrNonPositive, i, y)
		}
	}
	return nil
}

// segment returns j with xs[j] <= x < xs[j+1], clamped to the first and last segments.
func (p points) segment(x float64) int {
	n := len(p.xs)
	j := sort.SearchFloat64s(p.xs, x)
	// SearchFloat64s gives the first index with xs[j] >= x.
	if j < n && p.xs[j] == x {
		j++
	}
	j--
	if j < 0 {
		return 0
	}
	if j > n-2 {
		return n - 2
	}
	return j
}

// interval returns k with xs[k-1] < x <= xs[k], clamped to [1, n-1].
func (p points) interval(x float64) int {
	n := len(p.xs)
	k := sort.SearchFloat64s(p.xs, x)
	if k < 1 {
		return 1
	}
	if k > n-1 {
		return n - 1
	}
	return k
}
