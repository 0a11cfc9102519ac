// Package marketdata reads curve definitions from YAML and turns them into quotes, rate
// helpers and bootstrapped curves.
//
// A definition file lists curves in dependency order. A curve may discount on, or take a
// basis leg's projection from, any curve defined before it:
//
//	evaluation_date: 2024-11-25
//	curves:
//	  - name: ESTR
//	    trait: discount
//	    interpolation: loglinear
//	    instruments:
//	      - {type: ois, tenor: 1Y, quote: 2.55, fixed: ESTR-FIXED, float: ESTR}
//	  - name: EUR6M
//	    discount: ESTR
//	    instruments:
//	      - {type: deposit, tenor: 6M, quote: 4.496, index: EURIBOR6M}
//	      - {type: swap, tenor: 5Y, quote: 4.99, fixed: EUR-FIXED, float: EURIBOR6M}
//
// Rates are quoted in percent, spreads in basis points and bond prices per 100 face.
package marketdata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxFileSize bounds a definition file.
const MaxFileSize = 1 << 20

var ErrInvalidDefinition = errors.New("invalid curve definition")

// File is the root of a definition file.
type File struct {
	EvaluationDate string      `yaml:"evaluation_date"`
	Curves         []CurveSpec `yaml:"curves"`
}

// CurveSpec describes one curve.
type CurveSpec struct {
	Name string `yaml:"name"`
	// Reference pins the reference date. Without it the curve floats settlement_days business
	// days after the evaluation date.
	Reference      string        `yaml:"reference,omitempty"`
	SettlementDays *int          `yaml:"settlement_days,omitempty"`
	Calendar       string        `yaml:"calendar,omitempty"`
	DayCounter     string        `yaml:"day_counter,omitempty"`
	Trait          string        `yaml:"trait,omitempty"`
	Interpolation  string        `yaml:"interpolation,omitempty"`
	Bootstrap      BootstrapSpec `yaml:"bootstrap,omitempty"`
	Extrapolate    bool          `yaml:"extrapolate,omitempty"`
	// Discount names an earlier curve used to discount every swap-like instrument.
	Discount    string           `yaml:"discount,omitempty"`
	Jumps       []JumpSpec       `yaml:"jumps,omitempty"`
	Instruments []InstrumentSpec `yaml:"instruments"`
}

// BootstrapSpec selects the algorithm. Zero fields take the configured defaults.
type BootstrapSpec struct {
	Algorithm      string  `yaml:"algorithm,omitempty"`
	Accuracy       float64 `yaml:"accuracy,omitempty"`
	MaxPasses      int     `yaml:"max_passes,omitempty"`
	MaxEvaluations int     `yaml:"max_evaluations,omitempty"`
	Window         int     `yaml:"window,omitempty"`
}

// JumpSpec is a discount factor jump after Date.
type JumpSpec struct {
	Name   string  `yaml:"name,omitempty"`
	Date   string  `yaml:"date"`
	Factor float64 `yaml:"factor"`
}

// InstrumentSpec is one calibrating instrument. Which fields apply depends on Type.
type InstrumentSpec struct {
	// Type is deposit, fra, swap, ois, basis or bond.
	Type string `yaml:"type"`
	// Name is the quote's name in the book. It defaults to "<curve>/<label>".
	Name  string  `yaml:"name,omitempty"`
	Quote float64 `yaml:"quote"`

	Tenor          string `yaml:"tenor,omitempty"`
	SettlementDays *int   `yaml:"settlement_days,omitempty"`

	// deposit and fra
	Index string `yaml:"index,omitempty"`
	Start int    `yaml:"start,omitempty"`

	// swap and ois
	Fixed        string  `yaml:"fixed,omitempty"`
	Float        string  `yaml:"float,omitempty"`
	ForwardStart string  `yaml:"forward_start,omitempty"`
	Spread       float64 `yaml:"spread,omitempty"`

	// basis: base leg pays the quoted spread and is projected on BaseCurve.
	Base      string `yaml:"base,omitempty"`
	Other     string `yaml:"other,omitempty"`
	BaseCurve string `yaml:"base_curve,omitempty"`

	// bond
	Issue    string  `yaml:"issue,omitempty"`
	Maturity string  `yaml:"maturity,omitempty"`
	Coupon   float64 `yaml:"coupon,omitempty"`
	Leg      string  `yaml:"leg,omitempty"`
}

// Load reads and validates a definition file.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Load: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("marketdata.Load: %s is %d bytes, limit is %d", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Load: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Load: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a definition. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks what can be checked without building anything.
func (f *File) Validate() error {
	if f.EvaluationDate == "" {
		return fmt.Errorf("%w: evaluation_date is required", ErrInvalidDefinition)
	}
	if len(f.Curves) == 0 {
		return fmt.Errorf("%w: no curves", ErrInvalidDefinition)
	}
	seen := map[string]bool{}
	for i, c := range f.Curves {
		if c.Name == "" {
			return fmt.Errorf("%w: curve %d has no name", ErrInvalidDefinition, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: curve %q defined twice", ErrInvalidDefinition, c.Name)
		}
		if c.Discount != "" && !seen[c.Discount] {
			return fmt.Errorf("%w: curve %q discounts on %q, which is not defined before it", ErrInvalidDefinition, c.Name, c.Discount)
		}
		if len(c.Instruments) == 0 {
			return fmt.Errorf("%w: curve %q has no instruments", ErrInvalidDefinition, c.Name)
		}
		for j, in := range c.Instruments {
			if err := in.validate(seen); err != nil {
				return fmt.Errorf("%w: curve %q instrument %d: %v", ErrInvalidDefinition, c.Name, j, err)
			}
		}
		seen[c.Name] = true
	}
	return nil
}

func (in InstrumentSpec) validate(defined map[string]bool) error {
	missing := func(field string) error { return fmt.Errorf("%s needs %s", in.Type, field) }
	switch strings.ToLower(in.Type) {
	case "deposit":
		if in.Tenor == "" {
			return missing("tenor")
		}
		if in.Index == "" {
			return missing("index")
		}
	case "fra":
		if in.Index == "" {
			return missing("index")
		}
	case "swap", "ois":
		if in.Tenor == "" {
			return missing("tenor")
		}
		if in.Fixed == "" || in.Float == "" {
			return missing("fixed and float legs")
		}
	case "basis":
		if in.Tenor == "" {
			return missing("tenor")
		}
		if in.Base == "" || in.Other == "" {
			return missing("base and other legs")
		}
		if in.BaseCurve == "" {
			return missing("base_curve")
		}
		if !defined[in.BaseCurve] {
			return fmt.Errorf("base_curve %q is not defined before this curve", in.BaseCurve)
		}
	case "bond":
		if in.Issue == "" || in.Maturity == "" || in.Leg == "" {
			return missing("issue, maturity and leg")
		}
	default:
		return fmt.Errorf("unknown instrument type %q", in.Type)
	}
	return nil
}
