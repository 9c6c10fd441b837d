package production

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
)

const metricsNamespace = "heapsim"

// Metrics exposes collector activity and heap occupancy as Prometheus metrics.
type Metrics struct {
	phases     *prometheus.CounterVec
	cycles     *prometheus.CounterVec
	freed      *prometheus.CounterVec
	freedBytes *prometheus.CounterVec
	promoted   *prometheus.CounterVec
	objects    *prometheus.GaugeVec
	bytes      *prometheus.GaugeVec
	reachable  prometheus.Gauge
	roots      prometheus.Gauge
}

// NewMetrics registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		phases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gc_phases_total",
			Help:      "Number of GC phases executed.",
		}, []string{"collector", "phase"}),
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gc_cycles_total",
			Help:      "Number of completed GC cycles.",
		}, []string{"collector"}),
		freed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gc_freed_objects_total",
			Help:      "Number of objects freed by GC.",
		}, []string{"collector"}),
		freedBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gc_freed_bytes_total",
			Help:      "Number of bytes freed by GC.",
		}, []string{"collector"}),
		promoted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gc_promoted_objects_total",
			Help:      "Number of objects promoted to the old generation.",
		}, []string{"collector"}),
		objects: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "heap_objects",
			Help:      "Objects per heap partition.",
		}, []string{"partition"}),
		bytes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "heap_bytes",
			Help:      "Bytes per heap partition.",
		}, []string{"partition"}),
		reachable: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "heap_reachable_objects",
			Help:      "Objects reachable from GC roots.",
		}),
		roots: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "heap_gc_roots",
			Help:      "Number of GC root references.",
		}),
	}
}

// Attach registers a phase callback on c that records every executed phase
// and, when a cycle completes, its totals and the heap occupancy of m.
func (mt *Metrics) Attach(c gc.Collector, m *heap.Model) {
	seen := 0
	c.AddPhaseCallback(func(p gc.Phase) {
		tl := c.Timeline()
		if len(tl) < seen {
			seen = 0
		}
		for _, rec := range tl[seen:] {
			mt.observePhase(c.Name(), rec)
		}
		seen = len(tl)

		if p == gc.PhaseIdle {
			mt.cycles.WithLabelValues(string(c.Name())).Inc()
			mt.ObserveHeap(m)
			seen = 0
		}
	})
}

func (mt *Metrics) observePhase(kind gc.Kind, rec gc.PhaseRecord) {
	k := string(kind)
	mt.phases.WithLabelValues(k, string(rec.Phase)).Inc()
	mt.freed.WithLabelValues(k).Add(float64(rec.Freed))
	mt.freedBytes.WithLabelValues(k).Add(float64(rec.FreedBytes))
	mt.promoted.WithLabelValues(k).Add(float64(rec.Promoted))
}

// ObserveHeap sets the occupancy gauges from m.
func (mt *Metrics) ObserveHeap(m *heap.Model) {
	st := m.Stats()
	for _, loc := range heap.Locations() {
		ps := st.Partitions[loc]
		mt.objects.WithLabelValues(string(loc)).Set(float64(ps.Objects))
		mt.bytes.WithLabelValues(string(loc)).Set(float64(ps.Bytes))
	}
	mt.reachable.Set(float64(st.ReachableObjects))
	mt.roots.Set(float64(st.GCRoots))
}
