package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/logging"
)

// DefaultStepDelay is the pause between steps when none is configured.
const DefaultStepDelay = 500 * time.Millisecond

const instrumentationName = "github.com/comalice/heapsim/realtime"

// ErrAlreadyStarted is returned by Start on a driver that is already running.
var ErrAlreadyStarted = errors.New("driver already started")

// Config configures a Driver.
type Config struct {
	// StepDelay is the pause between consecutive steps. Negative means none.
	StepDelay time.Duration

	// MaxSteps stops the driver after that many steps; zero means no limit.
	MaxSteps int

	TracerProvider trace.TracerProvider
	Logger         logging.Logger
}

// Driver steps a collector at a fixed rate.
type Driver struct {
	collector gc.Collector
	delay     time.Duration
	maxSteps  int
	tracer    trace.Tracer
	log       logging.Logger

	mu      sync.Mutex
	steps   int
	cancel  context.CancelFunc
	stopped chan struct{}
	err     error
}

// NewDriver creates a driver for c. The collector must already have been started.
func NewDriver(c gc.Collector, cfg Config) *Driver {
	if cfg.StepDelay == 0 {
		cfg.StepDelay = DefaultStepDelay
	}
	if cfg.StepDelay < 0 {
		cfg.StepDelay = 0
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	return &Driver{
		collector: c,
		delay:     cfg.StepDelay,
		maxSteps:  cfg.MaxSteps,
		tracer:    cfg.TracerProvider.Tracer(instrumentationName),
		log:       logging.Module(cfg.Logger, "heapsim/realtime"),
	}
}

// Run steps the collector until it reports completion, MaxSteps is reached
// or ctx is cancelled, and returns the number of steps taken. Cancellation
// leaves the collector mid-cycle; call Reset to abandon it.
func (d *Driver) Run(ctx context.Context) (int, error) {
	taken := 0
	if !d.collector.Running() {
		return 0, nil
	}

	var tick <-chan time.Time
	if d.delay > 0 {
		ticker := time.NewTicker(d.delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return taken, ctx.Err() //nolint:wrapcheck
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return taken, err //nolint:wrapcheck
		}

		more := d.step(ctx)
		taken++
		if !more || (d.maxSteps > 0 && taken >= d.maxSteps) {
			return taken, nil
		}
	}
}

// Start runs the driver on a background goroutine. A driver whose previous
// run has exited, by completion or Stop, can be started again; the step count
// keeps accumulating.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped != nil {
		select {
		case <-d.stopped:
		default:
			return ErrAlreadyStarted
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.stopped = make(chan struct{})
	d.err = nil

	go d.loop(runCtx, d.stopped)

	return nil
}

// Stop cancels a background run and waits for it to exit. It returns the
// error Run ended with, ignoring cancellation caused by Stop itself.
func (d *Driver) Stop() error {
	d.mu.Lock()
	cancel, stopped := d.cancel, d.stopped
	d.mu.Unlock()

	if stopped == nil {
		return nil
	}

	cancel()
	<-stopped

	d.mu.Lock()
	defer d.mu.Unlock()
	if errors.Is(d.err, context.Canceled) {
		return nil
	}
	return d.err
}

// Done is closed when the latest background run exits. It is nil before Start.
func (d *Driver) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

// Steps returns the number of steps taken so far.
func (d *Driver) Steps() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.steps
}

func (d *Driver) loop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorw("collector panicked", "panic", r)
			d.mu.Lock()
			d.err = errors.Errorf("collector panicked: %v", r)
			d.mu.Unlock()
		}
	}()

	_, err := d.Run(ctx)

	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}
