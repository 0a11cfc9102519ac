// Package observer is the change-notification fabric connecting quotes, handles, helpers and
// curves.
//
// Subjects hold weak back-references to their observers, so an observer that is no longer
// reachable from anywhere else is collected and silently dropped from every registry. A single
// NotifyObservers call walks the whole downstream graph once: each transitive observer gets
// exactly one Update per call, even when it is reachable through several paths.
package observer

import (
	"weak"
)

// Observer reacts to a change in something it watches. Update must only mark local state
// stale; it must not query the subject or start another notification.
type Observer interface {
	Update()
}

// Subject is anything observers can register with.
type Subject interface {
	Notifier() *Observable
}

// Observable is embedded by every subject. The zero value is ready to use.
type Observable struct {
	entries []entry
}

type entry struct {
	key any
	get func() Observer
}

// Notifier lets *Observable and any type embedding it satisfy Subject.
func (o *Observable) Notifier() *Observable { return o }

// Watch registers obs with subj. Registering the same observer twice is a no-op.
func Watch[T any, P interface {
	*T
	Observer
}](obs P, subj Subject) {
	o := notifierOf(subj)
	if o == nil || obs == nil {
		return
	}
	wp := weak.Make((*T)(obs))
	for _, e := range o.entries {
		if e.key == any(wp) {
			return
		}
	}
	o.entries = append(o.entries, entry{
		key: wp,
		get: func() Observer {
			p := wp.Value()
			if p == nil {
				return nil
			}
			return P(p)
		},
	})
}

// Unwatch removes obs from subj's registry.
func Unwatch[T any, P interface {
	*T
	Observer
}](obs P, subj Subject) {
	o := notifierOf(subj)
	if o == nil || obs == nil {
		return
	}
	wp := weak.Make((*T)(obs))
	for i, e := range o.entries {
		if e.key == any(wp) {
			o.entries = append(o.entries[:i], o.entries[i+1:]...)
			return
		}
	}
}

func notifierOf(subj Subject) *Observable {
	if subj == nil {
		return nil
	}
	return subj.Notifier()
}

// Len returns the number of live observers.
func (o *Observable) Len() int {
	o.prune()
	return len(o.entries)
}

func (o *Observable) prune() {
	kept := o.entries[:0]
	for _, e := range o.entries {
		if e.get() != nil {
			kept = append(kept, e)
		}
	}
	clear(o.entries[len(kept):])
	o.entries = kept
}

// NotifyObservers runs one notification pass starting at o.
func (o *Observable) NotifyObservers() {
	visited := make(map[Observer]struct{})
	o.notify(visited)
}

func (o *Observable) notify(visited map[Observer]struct{}) {
	o.prune()
	// Update may register or unregister; iterate over a snapshot.
	targets := make([]Observer, 0, len(o.entries))
	for _, e := range o.entries {
		if obs := e.get(); obs != nil {
			targets = append(targets, obs)
		}
	}
	for _, obs := range targets {
		if _, seen := visited[obs]; seen {
			continue
		}
		visited[obs] = struct{}{}
		obs.Update()
		if s, ok := obs.(Subject); ok {
			if next := s.Notifier(); next != nil && next != o {
				next.notify(visited)
			}
		}
	}
}
