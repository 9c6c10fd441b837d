package production

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	prommodel "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
)

func TestMetrics_Attach(t *testing.T) {
	reg := prometheus.NewRegistry()
	mt := NewMetrics(reg)

	m := heap.NewModel()
	m.Allocate("Live", 64, heap.DefaultThread)
	m.Allocate("Dead", 100, "")
	m.Allocate("Dead", 28, "")

	s := gc.NewSerial(m)
	mt.Attach(s, m)

	s.StartMinor()
	for s.Step() {
	}

	require.Equal(t, 1.0, mustFindMetric(t, reg, "heapsim_gc_cycles_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "serial"}).GetCounter().GetValue())
	require.Equal(t, 1.0, mustFindMetric(t, reg, "heapsim_gc_phases_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "serial", "phase": "copy"}).GetCounter().GetValue())
	require.Equal(t, 2.0, mustFindMetric(t, reg, "heapsim_gc_freed_objects_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "serial"}).GetCounter().GetValue())
	require.Equal(t, 128.0, mustFindMetric(t, reg, "heapsim_gc_freed_bytes_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "serial"}).GetCounter().GetValue())
	require.Equal(t, 1.0, mustFindMetric(t, reg, "heapsim_heap_objects", prommodel.MetricType_GAUGE,
		map[string]string{"partition": "survivor0"}).GetGauge().GetValue())
	require.Equal(t, 0.0, mustFindMetric(t, reg, "heapsim_heap_objects", prommodel.MetricType_GAUGE,
		map[string]string{"partition": "eden"}).GetGauge().GetValue())
	require.Equal(t, 1.0, mustFindMetric(t, reg, "heapsim_heap_reachable_objects", prommodel.MetricType_GAUGE,
		nil).GetGauge().GetValue())

	// A second cycle adds to the counters rather than replacing them.
	s.StartMinor()
	for s.Step() {
	}
	require.Equal(t, 2.0, mustFindMetric(t, reg, "heapsim_gc_phases_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "serial", "phase": "sweep"}).GetCounter().GetValue())
}

func TestMetrics_ResetMidCycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	mt := NewMetrics(reg)

	m := heap.NewModel()
	m.Allocate("Live", 64, heap.DefaultThread)
	c := gc.NewCMS(m)
	mt.Attach(c, m)

	c.Start()
	c.Step()
	c.Step()
	c.Reset()

	c.Start()
	for c.Step() {
	}

	require.Equal(t, 2.0, mustFindMetric(t, reg, "heapsim_gc_phases_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "cms", "phase": "initial-mark"}).GetCounter().GetValue())
	require.Equal(t, 1.0, mustFindMetric(t, reg, "heapsim_gc_phases_total", prommodel.MetricType_COUNTER,
		map[string]string{"collector": "cms", "phase": "concurrent-sweep"}).GetCounter().GetValue())
}

func mustFindMetric(t *testing.T, g prometheus.Gatherer, wantName string, wantType prommodel.MetricType, wantLabels map[string]string) *prommodel.Metric {
	t.Helper()

	mfs, err := g.Gather()
	require.NoError(t, err)

	for _, f := range mfs {
		if f.GetName() != wantName || f.GetType() != wantType {
			continue
		}

		for _, m := range f.GetMetric() {
			if len(m.GetLabel()) != len(wantLabels) {
				continue
			}

			match := true
			for _, l := range m.GetLabel() {
				if wantLabels[l.GetName()] != l.GetValue() {
					match = false
				}
			}
			if match {
				return m
			}
		}
	}

	t.Fatalf("metric %v not found", wantName)
	return nil
}
