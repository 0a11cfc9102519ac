package piecewise

import (
	"math"
	"sort"
	"time"

	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/interpolation"
	"github.com/meenmo/ratecurve/termstructure"
)

// shape is a discount function on [0, maxTime].
type shape interface {
	discount(t float64) float64
	forward(t float64) float64
	maxTime() float64
}

// globalShape interpolates every node with one scheme.
type globalShape struct {
	trait Trait
	f     interpolation.Interpolation
}

func (g globalShape) discount(t float64) float64 { return g.trait.DiscountImpl(g.f, t) }
func (g globalShape) forward(t float64) float64  { return g.trait.ForwardImpl(g.f, t) }
func (g globalShape) maxTime() float64           { return g.f.XMax() }

// localShape is a chain of segments, each cut from its own interpolation over a window of
// nodes and scaled to join the previous segment.
type localShape struct {
	trait    Trait
	segments []segment
}

type segment struct {
	start, end float64
	// anchor is the discount factor at start; scale the piece's own value there.
	anchor, scale float64
	piece         interpolation.Interpolation
}

// set replaces segment k and drops the segments after it.
func (s *localShape) set(k int, start, end, anchor float64, piece interpolation.Interpolation) {
	seg := segment{start: start, end: end, anchor: anchor, scale: s.trait.DiscountImpl(piece, start), piece: piece}
	s.segments = append(s.segments[:k], seg)
}

func (s *localShape) find(t float64) (segment, bool) {
	n := len(s.segments)
	if n == 0 {
		return segment{}, false
	}
	k := sort.Search(n, func(k int) bool { return t <= s.segments[k].end })
	if k == n {
		k = n - 1
	}
	return s.segments[k], true
}

func (s *localShape) discount(t float64) float64 {
	seg, ok := s.find(t)
	if !ok {
		return 1
	}
	return seg.anchor * s.trait.DiscountImpl(seg.piece, t) / seg.scale
}

func (s *localShape) forward(t float64) float64 {
	seg, ok := s.find(t)
	if !ok {
		return 0
	}
	return s.trait.ForwardImpl(seg.piece, t)
}

func (s *localShape) maxTime() float64 {
	if len(s.segments) == 0 {
		return 0
	}
	return s.segments[len(s.segments)-1].end
}

func (s *localShape) clone() *localShape {
	return &localShape{trait: s.trait, segments: append([]segment(nil), s.segments...)}
}

type jumpNode struct {
	t, factor float64
}

// snapshot is a set of nodes with the discount function built on them. During a bootstrap
// it is the trial curve helpers are valued on; afterwards it is what the curve answers
// queries from.
type snapshot struct {
	ref   time.Time
	dc    daycount.Convention
	dates []time.Time
	times []float64
	data  []float64
	valid bool
	shape shape
	jumps []jumpNode
}

func (s *snapshot) Times() []float64 { return s.times }
func (s *snapshot) Data() []float64  { return s.data }
func (s *snapshot) Valid() bool      { return s.valid }

// DiscountAt evaluates the shape, continuing it past its last node at the flat
// instantaneous forward there.
func (s *snapshot) DiscountAt(t float64) float64 {
	if s.shape == nil {
		return 1
	}
	tmax := s.shape.maxTime()
	if t <= tmax {
		return s.shape.discount(t)
	}
	return s.shape.discount(tmax) * math.Exp(-s.shape.forward(tmax)*(t-tmax))
}

func (s *snapshot) ForwardAt(t float64) float64 {
	if s.shape == nil {
		return 0
	}
	return s.shape.forward(math.Min(t, s.shape.maxTime()))
}

// discountTime applies the jumps on top of the interpolated curve.
func (s *snapshot) discountTime(t float64) float64 {
	d := s.DiscountAt(t)
	for _, j := range s.jumps {
		if j.t < t {
			d *= j.factor
		}
	}
	return d
}

// ReferenceDate and Discount let helpers value their instruments on a trial curve, which
// always extrapolates.
func (s *snapshot) ReferenceDate() time.Time { return s.ref }

func (s *snapshot) Discount(d time.Time, _ bool) (float64, error) {
	t := s.dc.YearFraction(s.ref, d)
	if err := termstructure.CheckRange(t, math.Inf(1), true, true); err != nil {
		return 0, err
	}
	return s.discountTime(math.Max(t, 0)), nil
}

// interpolate rebuilds a global shape over the first n nodes.
func (s *snapshot) interpolate(trait Trait, m interpolation.Method, n int) error {
	f, err := m.Interpolate(s.times[:n], s.data[:n])
	if err != nil {
		return err
	}
	s.shape = globalShape{trait: trait, f: f}
	return nil
}

func (s *snapshot) copy() *snapshot {
	c := *s
	c.dates = append([]time.Time(nil), s.dates...)
	c.times = append([]float64(nil), s.times...)
	c.data = append([]float64(nil), s.data...)
	c.jumps = append([]jumpNode(nil), s.jumps...)
	if ls, ok := s.shape.(*localShape); ok {
		c.shape = ls.clone()
	}
	return &c
}
