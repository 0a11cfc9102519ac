// Package handle provides shared, relinkable references to observable objects.
//
// Every copy of a Handle points at the same link. Whoever observes the handle is notified
// both when the linked object changes and when the link is moved to another object.
package handle

import (
	"errors"
	"reflect"

	"github.com/meenmo/ratecurve/observer"
)

// ErrEmpty is returned when dereferencing a handle that is not linked.
var ErrEmpty = errors.New("handle: empty")

type link[T any] struct {
	observer.Observable
	target T
	linked bool
}

// Update is a no-op: the notification pass continues through the link's own registry.
func (l *link[T]) Update() {}

func (l *link[T]) linkTo(target T) {
	if l.linked {
		if s, ok := asSubject(l.target); ok {
			observer.Unwatch(l, s)
		}
	}
	var zero T
	l.target = target
	l.linked = !isNil(target)
	if !l.linked {
		l.target = zero
		return
	}
	if s, ok := asSubject(target); ok {
		observer.Watch(l, s)
	}
}

// Handle is a read-only view on a shared link.
type Handle[T any] struct {
	l *link[T]
}

// New returns a handle linked to target. A nil target gives an empty handle.
func New[T any](target T) Handle[T] {
	l := &link[T]{}
	l.linkTo(target)
	return Handle[T]{l: l}
}

// Current returns the linked object.
func (h Handle[T]) Current() (T, error) {
	if h.l == nil || !h.l.linked {
		var zero T
		return zero, ErrEmpty
	}
	return h.l.target, nil
}

// Empty reports whether the handle has no target.
func (h Handle[T]) Empty() bool {
	return h.l == nil || !h.l.linked
}

// Notifier lets observers watch the handle. The zero Handle has nothing to watch.
func (h Handle[T]) Notifier() *observer.Observable {
	if h.l == nil {
		return nil
	}
	return &h.l.Observable
}

// Same reports whether both handles share one link.
func (h Handle[T]) Same(other Handle[T]) bool {
	return h.l != nil && h.l == other.l
}

// Relinkable is a handle whose target can be replaced. Handles taken from it with Handle()
// follow every relink.
type Relinkable[T any] struct {
	h Handle[T]
}

// NewRelinkable returns a relinkable handle, optionally already linked.
func NewRelinkable[T any](target ...T) Relinkable[T] {
	l := &link[T]{}
	if len(target) > 0 {
		l.linkTo(target[0])
	}
	return Relinkable[T]{h: Handle[T]{l: l}}
}

// LinkTo points every copy of the handle at target and notifies observers.
func (r Relinkable[T]) LinkTo(target T) {
	r.h.l.linkTo(target)
	r.h.l.NotifyObservers()
}

// Reset empties the link and notifies observers.
func (r Relinkable[T]) Reset() {
	var zero T
	r.LinkTo(zero)
}

// Handle returns a read-only view that shares the link.
func (r Relinkable[T]) Handle() Handle[T] { return r.h }

func (r Relinkable[T]) Current() (T, error) { return r.h.Current() }

func (r Relinkable[T]) Empty() bool { return r.h.Empty() }

func (r Relinkable[T]) Notifier() *observer.Observable { return r.h.Notifier() }

func asSubject(v any) (observer.Subject, bool) {
	if isNil(v) {
		return nil, false
	}
	s, ok := v.(observer.Subject)
	return s, ok
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
