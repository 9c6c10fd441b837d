package realtime

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// step executes one collector step inside a span.
func (d *Driver) step(ctx context.Context) bool {
	phase := d.collector.Phase()

	_, span := d.tracer.Start(ctx, "gc.step")
	defer span.End()

	more := d.collector.Step()

	d.mu.Lock()
	d.steps++
	n := d.steps
	d.mu.Unlock()

	span.SetAttributes(
		attribute.String("gc.collector", string(d.collector.Name())),
		attribute.String("gc.cycle_id", d.collector.CycleID()),
		attribute.String("gc.phase", string(phase)),
		attribute.Int("gc.step", n),
		attribute.Bool("gc.more", more),
	)

	d.log.Debugw("step", "phase", phase, "next", d.collector.Phase(), "more", more)
	return more
}
