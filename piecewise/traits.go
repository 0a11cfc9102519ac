package piecewise

import (
	"fmt"
	"math"

	"github.com/meenmo/ratecurve/interpolation"
)

const (
	// avgRate seeds the first pillar.
	avgRate = 0.05
	// maxRate bounds the rate implied between two consecutive pillars.
	maxRate = 1.0
)

// View is what a trait sees of the curve being bootstrapped.
type View interface {
	Times() []float64
	Data() []float64
	// Valid reports whether Data holds the nodes of a previous successful build.
	Valid() bool
	// DiscountAt and ForwardAt evaluate the nodes solved so far, extrapolating flat forward
	// past the last of them. Jumps are not applied.
	DiscountAt(t float64) float64
	ForwardAt(t float64) float64
}

// Trait is the quantity a curve stores at its nodes and interpolates between them.
type Trait interface {
	Name() string
	// Supports reports whether m can interpolate the trait's node values.
	Supports(m interpolation.Method) bool
	// AllowsNegativeRates is false when the node values cannot represent a negative
	// quoted rate.
	AllowsNegativeRates() bool
	// InitialValue is the value of node 0, at the reference date.
	InitialValue() float64
	// InitialGuess starts the search for node i when no previous build exists.
	InitialGuess(i int, v View) float64
	// Guess starts the search for node i on warm starts and later passes.
	Guess(i int, v View) float64
	MinValueAfter(i int, v View) float64
	MaxValueAfter(i int, v View) float64
	// UpdateGuess stores a trial value for node i.
	UpdateGuess(data []float64, value float64, i int)
	// DiscountImpl converts the interpolated quantity into a discount factor at t.
	DiscountImpl(f interpolation.Interpolation, t float64) float64
	// ForwardImpl is the instantaneous continuously compounded forward at t.
	ForwardImpl(f interpolation.Interpolation, t float64) float64
}

// Discount interpolates discount factors, which stay positive under log schemes.
type Discount struct{}

func (Discount) Name() string { return "discount" }

func (Discount) Supports(m interpolation.Method) bool {
	return m == interpolation.LogLinear || m == interpolation.LogCubic
}

func (Discount) AllowsNegativeRates() bool { return false }

func (Discount) InitialValue() float64 { return 1 }

func (Discount) InitialGuess(i int, v View) float64 {
	if i == 1 {
		return 1 / (1 + avgRate*v.Times()[1])
	}
	return v.DiscountAt(v.Times()[i])
}

func (d Discount) Guess(i int, v View) float64 {
	if x := v.Data()[i]; v.Valid() && x > 0 {
		return x
	}
	return d.InitialGuess(i, v)
}

func (Discount) MinValueAfter(i int, v View) float64 {
	dt := v.Times()[i] - v.Times()[i-1]
	return v.Data()[i-1] * math.Exp(-maxRate*dt)
}

func (Discount) MaxValueAfter(i int, v View) float64 {
	dt := v.Times()[i] - v.Times()[i-1]
	return v.Data()[i-1] * math.Exp(maxRate*dt)
}

func (Discount) UpdateGuess(data []float64, value float64, i int) { data[i] = value }

func (Discount) DiscountImpl(f interpolation.Interpolation, t float64) float64 {
	return f.Value(t)
}

func (Discount) ForwardImpl(f interpolation.Interpolation, t float64) float64 {
	return -f.Derivative(t) / f.Value(t)
}

// ZeroYield interpolates continuously compounded zero rates.
type ZeroYield struct{}

func (ZeroYield) Name() string { return "zero" }

func (ZeroYield) Supports(m interpolation.Method) bool {
	return m == interpolation.Linear || m == interpolation.Cubic || m == interpolation.BackwardFlat
}

func (ZeroYield) AllowsNegativeRates() bool { return true }

func (ZeroYield) InitialValue() float64 { return avgRate }

func (ZeroYield) InitialGuess(i int, v View) float64 {
	if i == 1 {
		return avgRate
	}
	t := v.Times()[i]
	return -math.Log(v.DiscountAt(t)) / t
}

func (z ZeroYield) Guess(i int, v View) float64 {
	if v.Valid() {
		return v.Data()[i]
	}
	return z.InitialGuess(i, v)
}

func (ZeroYield) MinValueAfter(int, View) float64 { return -maxRate }

func (ZeroYield) MaxValueAfter(int, View) float64 { return maxRate }

// UpdateGuess also moves node 0 while solving the first pillar, so the short end is flat.
func (ZeroYield) UpdateGuess(data []float64, value float64, i int) {
	data[i] = value
	if i == 1 {
		data[0] = value
	}
}

func (ZeroYield) DiscountImpl(f interpolation.Interpolation, t float64) float64 {
	return math.Exp(-f.Value(t) * t)
}

func (ZeroYield) ForwardImpl(f interpolation.Interpolation, t float64) float64 {
	return f.Value(t) + t*f.Derivative(t)
}

// ForwardRate interpolates instantaneous forwards. Under BackwardFlat and ConvexMonotone
// node i holds the average forward over the interval ending at it.
type ForwardRate struct{}

func (ForwardRate) Name() string { return "forward" }

func (ForwardRate) Supports(m interpolation.Method) bool {
	switch m {
	case interpolation.Linear, interpolation.BackwardFlat, interpolation.Cubic, interpolation.ConvexMonotone:
		return true
	}
	return false
}

func (ForwardRate) AllowsNegativeRates() bool { return true }

func (ForwardRate) InitialValue() float64 { return avgRate }

func (ForwardRate) InitialGuess(i int, v View) float64 {
	if i == 1 {
		return avgRate
	}
	return v.ForwardAt(v.Times()[i])
}

func (f ForwardRate) Guess(i int, v View) float64 {
	if v.Valid() {
		return v.Data()[i]
	}
	return f.InitialGuess(i, v)
}

func (ForwardRate) MinValueAfter(int, View) float64 { return -maxRate }

func (ForwardRate) MaxValueAfter(int, View) float64 { return maxRate }

func (ForwardRate) UpdateGuess(data []float64, value float64, i int) {
	data[i] = value
	if i == 1 {
		data[0] = value
	}
}

func (ForwardRate) DiscountImpl(f interpolation.Interpolation, t float64) float64 {
	return math.Exp(-f.Primitive(t))
}

func (ForwardRate) ForwardImpl(f interpolation.Interpolation, t float64) float64 {
	return f.Value(t)
}

// ParseTrait accepts the names printed by Name.
func ParseTrait(s string) (Trait, error) {
	switch s {
	case "discount", "Discount":
		return Discount{}, nil
	case "zero", "ZeroYield", "zeroyield":
		return ZeroYield{}, nil
	case "forward", "ForwardRate", "forwardrate":
		return ForwardRate{}, nil
	}
	return nil, fmt.Errorf("piecewise.ParseTrait: unknown trait %q", s)
}
