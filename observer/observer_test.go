package observer_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/meenmo/ratecurve/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counter struct {
	name  string
	count int
}

func (c *counter) Update() { c.count++ }

// relay is an observer that is also observable, like a handle link or a helper.
type relay struct {
	observer.Observable
	name  string
	count int
}

func (r *relay) Update() { r.count++ }

func TestWatchIsIdempotent(t *testing.T) {
	t.Parallel()

	var subj observer.Observable
	obs := &counter{name: "a"}
	observer.Watch(obs, &subj)
	observer.Watch(obs, &subj)
	require.Equal(t, 1, subj.Len())

	subj.NotifyObservers()
	assert.Equal(t, 1, obs.count)

	observer.Unwatch(obs, &subj)
	subj.NotifyObservers()
	assert.Equal(t, 1, obs.count)
	assert.Equal(t, 0, subj.Len())
}

func TestChainForwardsOnePass(t *testing.T) {
	t.Parallel()

	var src observer.Observable
	mid := &relay{name: "mid"}
	leaf := &counter{name: "leaf"}
	observer.Watch(mid, &src)
	observer.Watch(leaf, mid)

	src.NotifyObservers()
	src.NotifyObservers()
	assert.Equal(t, 2, mid.count)
	assert.Equal(t, 2, leaf.count)
}

func TestDiamondDeliversOncePerPass(t *testing.T) {
	t.Parallel()

	// src -> left -> sink and src -> right -> sink; sink also watches src directly.
	var src observer.Observable
	left := &relay{name: "left"}
	right := &relay{name: "right"}
	sink := &relay{name: "sink"}
	tail := &counter{name: "tail"}
	observer.Watch(left, &src)
	observer.Watch(right, &src)
	observer.Watch(sink, left)
	observer.Watch(sink, right)
	observer.Watch(sink, &src)
	observer.Watch(tail, sink)

	src.NotifyObservers()
	assert.Equal(t, 1, left.count)
	assert.Equal(t, 1, right.count)
	assert.Equal(t, 1, sink.count)
	assert.Equal(t, 1, tail.count)

	right.NotifyObservers()
	assert.Equal(t, 1, left.count)
	assert.Equal(t, 2, sink.count)
	assert.Equal(t, 2, tail.count)
}

func TestCollectedObserversArePruned(t *testing.T) {
	t.Parallel()

	var subj observer.Observable
	keep := &counter{name: "keep"}
	observer.Watch(keep, &subj)
	func() {
		gone := &counter{name: "gone"}
		observer.Watch(gone, &subj)
	}()

	for i := 0; i < 10 && subj.Len() > 1; i++ {
		runtime.GC()
	}
	assert.Equal(t, 1, subj.Len())

	subj.NotifyObservers()
	assert.Equal(t, 1, keep.count)
}

func TestNilSubjectIsIgnored(t *testing.T) {
	t.Parallel()

	obs := &counter{}
	observer.Watch(obs, nil)
	observer.Unwatch(obs, nil)
	assert.Equal(t, 0, obs.count)
}
