// Package workload drives a heap.Model the way an application would:
// allocating objects and wiring random references between them.
package workload

import (
	"math/rand"

	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/internal/logging"
)

// Defaults match a mutator that allocates plain 64-byte objects on the main
// thread and roots all of them.
const (
	DefaultType     = "Object"
	DefaultSize     = 64
	DefaultMaxEdges = 200
)

// Config controls what a Mutator allocates.
type Config struct {
	Seed int64

	// Types are picked uniformly for each allocation.
	Types []string

	// Sizes are drawn uniformly from [MinSize, MaxSize].
	MinSize uint64
	MaxSize uint64

	// Thread receives a root for each allocation with probability RootRatio.
	Thread    string
	RootRatio float64
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Seed:      1,
		Types:     []string{DefaultType},
		MinSize:   DefaultSize,
		MaxSize:   DefaultSize,
		Thread:    heap.DefaultThread,
		RootRatio: 1,
	}
}

// Mutator allocates objects and links them at random.
type Mutator struct {
	model *heap.Model
	cfg   Config
	rng   *rand.Rand
	log   logging.Logger
}

// New returns a Mutator for m. Zero fields of cfg fall back to DefaultConfig.
func New(m *heap.Model, cfg Config, l logging.Logger) *Mutator {
	def := DefaultConfig()
	if len(cfg.Types) == 0 {
		cfg.Types = def.Types
	}
	if cfg.MinSize == 0 {
		cfg.MinSize = def.MinSize
	}
	if cfg.MaxSize < cfg.MinSize {
		cfg.MaxSize = cfg.MinSize
	}

	return &Mutator{
		model: m,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec
		log:   logging.Module(l, "heapsim/workload"),
	}
}

// Allocate creates n objects in eden.
func (mu *Mutator) Allocate(n int) []*heap.Object {
	out := make([]*heap.Object, 0, n)
	rooted := 0
	for i := 0; i < n; i++ {
		thread := ""
		if mu.cfg.Thread != "" && mu.rng.Float64() < mu.cfg.RootRatio {
			thread = mu.cfg.Thread
			rooted++
		}

		typ := mu.cfg.Types[mu.rng.Intn(len(mu.cfg.Types))]
		size := mu.cfg.MinSize
		if span := mu.cfg.MaxSize - mu.cfg.MinSize; span > 0 {
			size += uint64(mu.rng.Int63n(int64(span + 1)))
		}
		out = append(out, mu.model.Allocate(typ, size, thread))
	}

	mu.log.Debugw("allocated", "objects", n, "rooted", rooted)
	return out
}

// Link adds min(floor(N*k), maxEdges) new references between distinct random
// objects, where N is the number of live objects. It gives up after ten
// attempts per wanted edge and returns how many references it created.
func (mu *Mutator) Link(k float64, maxEdges int) int {
	objs := mu.model.AllObjects()
	if len(objs) < 2 || k <= 0 {
		return 0
	}
	if maxEdges <= 0 {
		maxEdges = DefaultMaxEdges
	}

	want := min(int(float64(len(objs))*k), maxEdges)
	created := 0
	for attempts := 0; created < want && attempts < want*10; attempts++ {
		from := objs[mu.rng.Intn(len(objs))]
		to := objs[mu.rng.Intn(len(objs))]
		if from.ID == to.ID || from.HasReference(to.ID) {
			continue
		}
		mu.model.CreateReference(from.ID, to.ID)
		created++
	}

	mu.log.Debugw("linked", "wanted", want, "created", created)
	return created
}

// Unlink removes up to n random references and returns how many it removed.
func (mu *Mutator) Unlink(n int) int {
	removed := 0
	for ; removed < n; removed++ {
		var owners []*heap.Object
		for _, obj := range mu.model.AllObjects() {
			if len(obj.References) > 0 {
				owners = append(owners, obj)
			}
		}
		if len(owners) == 0 {
			break
		}

		from := owners[mu.rng.Intn(len(owners))]
		to := from.References[mu.rng.Intn(len(from.References))]
		mu.model.RemoveReference(from.ID, to)
	}

	mu.log.Debugw("unlinked", "references", removed)
	return removed
}
