package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/internal/units"
)

//nolint:gochecknoglobals
var (
	headerColor     = color.New(color.Bold)
	pauseColor      = color.New(color.FgRed)
	concurrentColor = color.New(color.FgGreen)
	rootColor       = color.New(color.FgYellow)
)

func printStats(label string, s heap.Stats) {
	fmt.Printf("%v %v objects (%v), %v reachable, %v roots\n",
		headerColor.Sprintf("%-7v", label+":"),
		s.TotalObjects, units.BytesString(s.TotalBytes), s.ReachableObjects, s.GCRoots)

	for _, loc := range heap.Locations() {
		ps := s.Partitions[loc]
		fmt.Printf("  %-10v %4v objects %10v\n", loc, ps.Objects, units.BytesString(ps.Bytes))
	}
}

func printTimeline(kind gc.Kind, cycleID string, timeline []gc.PhaseRecord) {
	fmt.Println(headerColor.Sprintf("%v cycle %v", kind, cycleID))

	for _, rec := range timeline {
		col, mode := concurrentColor, "concurrent"
		if rec.StopTheWorld {
			col, mode = pauseColor, "pause"
		}

		fmt.Printf("  %2d %-22v %v %v\n", rec.Step, rec.Phase, col.Sprintf("%-10v", mode), describe(rec))
	}
}

func describe(rec gc.PhaseRecord) string {
	var parts []string
	add := func(name string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%v=%v", name, n))
		}
	}

	add("marked", rec.Marked)
	add("moved", rec.Moved)
	add("promoted", rec.Promoted)
	add("evicted", rec.Evicted)
	add("relocated", rec.Relocated)
	add("barrier", rec.BarrierHits)
	add("refs", rec.UpdatedRefs)
	if rec.Freed > 0 {
		parts = append(parts, fmt.Sprintf("freed=%v (%v)", rec.Freed, units.BytesString(rec.FreedBytes)))
	}
	if len(rec.Regions) > 0 {
		parts = append(parts, fmt.Sprintf("regions=%v", rec.Regions))
	}
	if len(rec.Workers) > 0 {
		parts = append(parts, fmt.Sprintf("workers=%v", rec.Workers))
	}
	return strings.Join(parts, " ")
}

func printMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err //nolint:wrapcheck
	}

	fmt.Println(headerColor.Sprint("metrics"))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Printf("  %v%v %v\n", mf.GetName(), labels(m), value(mf.GetType(), m))
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		pairs = append(pairs, fmt.Sprintf("%v=%q", l.GetName(), l.GetValue()))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
