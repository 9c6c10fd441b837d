// Package benchmarks provides collection cycle benchmarks.
package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
)

func BenchmarkCycle(b *testing.B) {
	for _, kind := range gc.Kinds() {
		cycles, err := gc.Sequences(kind)
		if err != nil {
			b.Fatal(err)
		}
		for _, cycle := range cycles {
			for _, n := range []int{100, 1000} {
				b.Run(fmt.Sprintf("%s/%s/objects=%d", kind, cycle.Name, n), func(b *testing.B) {
					b.ReportAllocs()
					for i := 0; i < b.N; i++ {
						b.StopTimer()
						m := GenHeap(n, 2)
						b.StartTimer()
						if _, err := RunCycle(kind, cycle.Name, m); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		}
	}
}

func BenchmarkReachable(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("objects=%d", n), func(b *testing.B) {
			m := GenHeap(n, 2)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = m.ReachableObjects()
			}
		})
	}
}

func BenchmarkPathsToRoots(b *testing.B) {
	m := GenHeap(1000, 3)
	objs := m.AllObjects()
	target := objs[len(objs)-1].ID

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.PathsToRoots(target, 5)
	}
}

func BenchmarkSnapshotYAML(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("objects=%d", n), func(b *testing.B) {
			var size int
			for i := 0; i < b.N; i++ {
				size = len(GenSnapshotYAML(n))
			}
			b.ReportMetric(float64(size), "bytes/snapshot")
		})
	}
}

func BenchmarkMemoryPerObject(b *testing.B) {
	const n = 10000

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	m := heap.NewModel()
	for i := 0; i < n; i++ {
		m.Allocate("Object", 64, heap.DefaultThread)
	}

	runtime.ReadMemStats(&after)
	runtime.KeepAlive(m)

	b.ReportMetric(float64(after.TotalAlloc-before.TotalAlloc)/n, "B/object")
}
