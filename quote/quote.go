// Package quote holds mutable observable market values.
package quote

import (
	"errors"
	"fmt"

	"github.com/meenmo/ratecurve/observer"
)

// ErrInvalid is returned when reading a quote that has no valid value.
var ErrInvalid = errors.New("quote: invalid value")

// Quote is a named market value. Mutations notify observers; reads never do.
type Quote struct {
	observer.Observable
	name  string
	value float64
	valid bool
}

// New returns a valid quote.
func New(name string, value float64) *Quote {
	return &Quote{name: name, value: value, valid: true}
}

// NewInvalid returns a quote that has no value yet.
func NewInvalid(name string) *Quote {
	return &Quote{name: name}
}

func (q *Quote) Name() string { return q.name }

// Value returns the current value or ErrInvalid.
func (q *Quote) Value() (float64, error) {
	if !q.valid {
		return 0, fmt.Errorf("%s: %w", q.name, ErrInvalid)
	}
	return q.value, nil
}

func (q *Quote) IsValid() bool { return q.valid }

// SetValue stores v and notifies observers if the stored value changed.
// It returns the difference from the previous value.
func (q *Quote) SetValue(v float64) float64 {
	diff := v - q.value
	if q.valid && v == q.value {
		return 0
	}
	q.value = v
	q.valid = true
	q.NotifyObservers()
	return diff
}

// Invalidate drops the value and notifies observers.
func (q *Quote) Invalidate() {
	q.valid = false
	q.NotifyObservers()
}

func (q *Quote) String() string {
	if !q.valid {
		return q.name + "=<invalid>"
	}
	return fmt.Sprintf("%s=%g", q.name, q.value)
}
