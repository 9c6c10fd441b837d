package gc

import (
	"github.com/comalice/heapsim/internal/logging"
)

// Defaults for the tunable engines.
const (
	DefaultWorkers              = 4
	DefaultRegionSize           = 1024
	DefaultMaxCollectionRegions = 8
)

// Option applies configuration to an engine via the functional options pattern.
type Option func(*engine)

// WithLogger configures the engine logger. Phase transitions are logged at debug level.
func WithLogger(l logging.Logger) Option {
	return func(e *engine) {
		e.log = l
	}
}

// WithPublisher configures a Publisher that receives every phase transition.
func WithPublisher(p Publisher) Option {
	return func(e *engine) {
		e.publisher = p
	}
}

// WithWorkers sets the number of chunks the Parallel collector splits work into.
// Non-positive values are ignored.
func WithWorkers(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRegionSize sets the G1 region capacity in bytes. Zero is ignored.
func WithRegionSize(size uint64) Option {
	return func(e *engine) {
		if size > 0 {
			e.regionSize = size
		}
	}
}

// WithMaxCollectionRegions caps the G1 collection set. Non-positive values are ignored.
func WithMaxCollectionRegions(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.maxRegions = n
		}
	}
}
