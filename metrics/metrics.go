// Package metrics decorates a pacer backend so that bar activity is
// mirrored into Prometheus collectors while rendering stays untouched.
package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/pacer/backend"
)

// Backend wraps another backend and owns the collectors for bars started,
// bars active, items processed, and bar duration.
type Backend struct {
	next backend.Backend

	barsStarted    prometheus.Counter
	barsActive     prometheus.Gauge
	itemsProcessed prometheus.Counter
	barDuration    prometheus.Histogram
}

// Instrument registers the collectors against reg and returns the
// decorated backend. A nil reg uses the default registerer.
func Instrument(next backend.Backend, reg prometheus.Registerer) (*Backend, error) {
	if next == nil {
		return nil, fmt.Errorf("instrument: nil backend")
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	b := &Backend{
		next: next,
		barsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pacer_bars_started_total",
			Help: "Total progress bars created.",
		}),
		barsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pacer_bars_active",
			Help: "Progress bars currently rendering.",
		}),
		itemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pacer_items_processed_total",
			Help: "Items consumed across all bars.",
		}),
		barDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacer_bar_duration_seconds",
			Help:    "Wall time from bar creation to finish.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 1200},
		}),
	}
	for _, collector := range []prometheus.Collector{
		b.barsStarted,
		b.barsActive,
		b.itemsProcessed,
		b.barDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register pacer collector: %w", err)
		}
	}
	return b, nil
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return b.next.Name() + "+metrics" }

// NewBar implements backend.Backend.
func (b *Backend) NewBar(opts backend.Options) backend.Bar {
	b.barsStarted.Inc()
	b.barsActive.Inc()
	return &observedBar{
		inner: b.next.NewBar(opts),
		owner: b,
		start: time.Now(),
	}
}

// Write delegates to the wrapped backend's safe-write primitive.
func (b *Backend) Write(w io.Writer, msg string) error { return b.next.Write(w, msg) }

// Lock delegates to the wrapped backend.
func (b *Backend) Lock() sync.Locker { return b.next.Lock() }

// SetLock delegates to the wrapped backend.
func (b *Backend) SetLock(l sync.Locker) { b.next.SetLock(l) }

type observedBar struct {
	inner backend.Bar
	owner *Backend
	start time.Time
	done  sync.Once
}

// Add implements backend.Bar.
func (o *observedBar) Add(n int) error {
	if n > 0 {
		o.owner.itemsProcessed.Add(float64(n))
	}
	return o.inner.Add(n)
}

// Finish implements backend.Bar. Repeated finishes observe once.
func (o *observedBar) Finish() error {
	o.done.Do(func() {
		o.owner.barsActive.Dec()
		o.owner.barDuration.Observe(time.Since(o.start).Seconds())
	})
	return o.inner.Finish()
}
