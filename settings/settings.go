// Package settings holds the observable evaluation date.
package settings

import (
	"time"

	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/utils"
)

// Settings carries the evaluation date every relative date in the model is measured from.
// Objects built with an explicit *Settings never see changes made to Global().
type Settings struct {
	observer.Observable
	evaluationDate time.Time
	today          func() time.Time
}

var global = New()

// Global returns the process-wide settings.
func Global() *Settings { return global }

// New returns independent settings whose evaluation date defaults to today.
func New() *Settings {
	return &Settings{today: func() time.Time { return utils.Truncate(time.Now().UTC()) }}
}

// EvaluationDate returns the pinned evaluation date, or today when none is set.
func (s *Settings) EvaluationDate() time.Time {
	if s.evaluationDate.IsZero() {
		return s.today()
	}
	return s.evaluationDate
}

// SetEvaluationDate pins the evaluation date and notifies observers when it changes.
func (s *Settings) SetEvaluationDate(d time.Time) {
	d = utils.Truncate(d)
	if d.Equal(s.evaluationDate) {
		return
	}
	s.evaluationDate = d
	s.NotifyObservers()
}

// ResetEvaluationDate returns to tracking today.
func (s *Settings) ResetEvaluationDate() {
	if s.evaluationDate.IsZero() {
		return
	}
	s.evaluationDate = time.Time{}
	s.NotifyObservers()
}

// Or returns s, or Global() when s is nil.
func Or(s *Settings) *Settings {
	if s == nil {
		return global
	}
	return s
}
