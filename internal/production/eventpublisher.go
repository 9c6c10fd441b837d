package production

import (
	"context"

	"go.uber.org/multierr"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/logging"
)

// ChannelPublisher forwards phase events to a Go channel.
// Publish never blocks: events are dropped when the channel is full.
type ChannelPublisher struct {
	ch chan<- gc.PhaseEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- gc.PhaseEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event gc.PhaseEvent) error {
	select {
	case p.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// LogPublisher writes every phase event to a logger at info level.
type LogPublisher struct {
	log logging.Logger
}

// NewLogPublisher returns a publisher logging under the "heapsim/events" module.
func NewLogPublisher(l logging.Logger) *LogPublisher {
	return &LogPublisher{log: logging.Module(l, "heapsim/events")}
}

func (p *LogPublisher) Publish(_ context.Context, event gc.PhaseEvent) error {
	p.log.Infow("phase",
		"collector", string(event.Collector),
		"cycle", event.Cycle,
		"id", event.CycleID,
		"phase", string(event.Phase),
		"step", event.Step,
		"concurrent", event.Concurrent)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// MultiPublisher fans an event out to several publishers.
// Every publisher sees every event; errors are combined.
type MultiPublisher []gc.Publisher

func (m MultiPublisher) Publish(ctx context.Context, event gc.PhaseEvent) error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Publish(ctx, event))
	}
	return multierr.Combine(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Close())
	}
	return multierr.Combine(errs...)
}
