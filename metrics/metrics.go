// Package metrics exposes bootstrap activity as Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ratecurve"

// Bootstrap groups the curve-construction collectors. A nil *Bootstrap records nothing.
type Bootstrap struct {
	runs          *prometheus.CounterVec
	passes        *prometheus.HistogramVec
	evaluations   *prometheus.HistogramVec
	invalidations prometheus.Counter
}

// New creates the collectors and registers them with reg. Registering twice with the same
// registry reuses the collectors already there.
func New(reg prometheus.Registerer) (*Bootstrap, error) {
	b := &Bootstrap{
		// Labels: algorithm (iterative, local), result (success, error)
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_total",
			Help:      "Curve rebuilds by algorithm and result",
		}, []string{"algorithm", "result"}),
		passes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bootstrap_passes",
			Help:      "Passes over the pillars per rebuild",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
		}, []string{"algorithm"}),
		evaluations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bootstrap_evaluations",
			Help:      "Objective evaluations per rebuild",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}, []string{"algorithm"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curve_invalidations_total",
			Help:      "Notifications that marked a curve dirty",
		}),
	}
	if reg == nil {
		return b, nil
	}
	var err error
	b.runs, err = register(reg, b.runs)
	if err != nil {
		return nil, err
	}
	b.passes, err = register(reg, b.passes)
	if err != nil {
		return nil, err
	}
	b.evaluations, err = register(reg, b.evaluations)
	if err != nil {
		return nil, err
	}
	b.invalidations, err = register(reg, b.invalidations)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveRun records one rebuild.
func (b *Bootstrap) ObserveRun(algorithm string, passes, evaluations int, err error) {
	if b == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	b.runs.WithLabelValues(algorithm, result).Inc()
	b.passes.WithLabelValues(algorithm).Observe(float64(passes))
	b.evaluations.WithLabelValues(algorithm).Observe(float64(evaluations))
}

// ObserveInvalidation records a curve being marked dirty.
func (b *Bootstrap) ObserveInvalidation() {
	if b == nil {
		return
	}
	b.invalidations.Inc()
}
