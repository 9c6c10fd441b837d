// Package testutil runs collection cycles the same way from tests, whether
// stepped directly or paced through the realtime driver.
package testutil

import (
	"context"
	"time"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/internal/workload"
	"github.com/comalice/heapsim/realtime"
)

// CycleAdapter provides a common interface for driving a started collector to
// completion. This allows running the same test suite through both drivers.
type CycleAdapter interface {
	Name() string

	// Drive steps c until it completes and returns the phases it executed.
	Drive(ctx context.Context, c gc.Collector) ([]gc.Phase, error)
}

// DirectAdapter calls Step in a loop.
type DirectAdapter struct{}

func (DirectAdapter) Name() string { return "direct" }

func (DirectAdapter) Drive(ctx context.Context, c gc.Collector) ([]gc.Phase, error) {
	var phases []gc.Phase
	for c.Running() {
		if err := ctx.Err(); err != nil {
			return phases, err
		}
		phases = append(phases, c.Phase())
		c.Step()
	}
	return phases, nil
}

// DriverAdapter paces the cycle through a realtime.Driver.
type DriverAdapter struct {
	StepDelay time.Duration
}

func (DriverAdapter) Name() string { return "driver" }

func (a DriverAdapter) Drive(ctx context.Context, c gc.Collector) ([]gc.Phase, error) {
	var phases []gc.Phase
	record := c.Running()
	c.AddPhaseCallback(func(p gc.Phase) {
		if record && p != gc.PhaseIdle {
			phases = append(phases, p)
		}
	})
	if record {
		phases = append(phases, c.Phase())
	}

	_, err := realtime.NewDriver(c, realtime.Config{StepDelay: a.StepDelay}).Run(ctx)
	record = false
	return phases, err
}

// Adapters returns one adapter per driving strategy.
func Adapters() []CycleAdapter {
	return []CycleAdapter{DirectAdapter{}, DriverAdapter{StepDelay: time.Millisecond}}
}

// RandomHeap builds a model with n objects, a quarter of them rooted, linked
// with the given out-degree.
func RandomHeap(seed int64, n int, outDegree float64) *heap.Model {
	m := heap.NewModel()
	mu := workload.New(m, workload.Config{
		Seed:      seed,
		MinSize:   16,
		MaxSize:   512,
		Thread:    heap.DefaultThread,
		RootRatio: 0.25,
	}, nil)
	mu.Allocate(n)
	mu.Link(outDegree, n*4)
	return m
}
