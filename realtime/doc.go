// Package realtime paces a collector: it calls Step at a fixed delay so a
// collection cycle can be watched phase by phase.
//
// # Example Usage
//
//	c := gc.NewG1(model)
//	c.StartYoung()
//	d := realtime.NewDriver(c, realtime.Config{StepDelay: 500 * time.Millisecond})
//	steps, err := d.Run(ctx)
//
// Run drives on the caller's goroutine and returns when the cycle completes
// or ctx is cancelled. Start and Stop drive on a background goroutine
// instead; the collector and its model must not be touched until Done is
// closed.
//
// Each step is recorded as an OpenTelemetry span named "gc.step" carrying the
// collector kind, the phase executed and whether the cycle continues. Spans
// go to the global tracer provider unless Config.TracerProvider is set.
package realtime
