// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"gopkg.in/yaml.v3"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/testutil"
)

// GenHeap creates a model with n objects linked with the given out-degree.
func GenHeap(n int, outDegree float64) *heap.Model {
	return testutil.RandomHeap(int64(n), n, outDegree)
}

// RunCycle starts the named cycle of kind on m and steps it to completion.
func RunCycle(kind gc.Kind, cycle string, m *heap.Model) (gc.Collector, error) {
	c, err := gc.New(kind, m)
	if err != nil {
		return nil, err
	}
	if err := gc.StartCycle(c, cycle); err != nil {
		return nil, err
	}
	for c.Step() {
	}
	return c, nil
}

// GenSnapshotYAML generates YAML bytes for a snapshot of a heap with n objects.
func GenSnapshotYAML(n int) []byte {
	data, err := yaml.Marshal(GenHeap(n, 2).Snapshot())
	if err != nil {
		panic(err)
	}
	return data
}
