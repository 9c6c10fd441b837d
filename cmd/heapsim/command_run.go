package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sanity-io/litter"

	"github.com/comalice/heapsim/builder"
	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/internal/logging"
	"github.com/comalice/heapsim/internal/production"
	"github.com/comalice/heapsim/internal/workload"
	"github.com/comalice/heapsim/realtime"
)

//nolint:gochecknoglobals
var (
	runCommand = app.Command("run", "Run one collection cycle and print its timeline.").Default()

	runScenario  = runCommand.Flag("scenario", "YAML scenario describing the heap and collector.").ExistingFile()
	runCollector = runCommand.Flag("collector", "Collector to run.").Short('c').Default("serial").String()
	runCycle     = runCommand.Flag("cycle", "Cycle to run; empty picks one from the heap.").String()

	runObjects   = runCommand.Flag("objects", "Random objects to allocate when no scenario is given.").Default("20").Int()
	runOutDegree = runCommand.Flag("out-degree", "Average references per random object.").Default("1.5").Float64()
	runMaxEdges  = runCommand.Flag("max-edges", "Upper bound on random references; zero means no bound.").Default("0").Int()
	runRoots     = runCommand.Flag("root-ratio", "Fraction of random objects referenced from the main thread.").Default("0.3").Float64()
	runSeed      = runCommand.Flag("seed", "Seed for the random heap.").Default("1").Int64()

	runWorkers    = runCommand.Flag("workers", "Parallel collector worker count.").Default("4").Int()
	runRegionSize = runCommand.Flag("region-size", "G1 region size.").Default("1KiB").Bytes()
	runMaxRegions = runCommand.Flag("max-regions", "G1 collection set limit.").Default("8").Int()

	runDelay    = runCommand.Flag("delay", "Pause between phases.").Default("0s").Duration()
	runMaxSteps = runCommand.Flag("max-steps", "Stop after this many phases; zero means run to completion.").Int()

	runEvents  = runCommand.Flag("events", "Log every phase event.").Bool()
	runMetrics = runCommand.Flag("metrics", "Print collector metrics after the cycle.").Bool()
	runDot     = runCommand.Flag("dot", "Write the final heap as Graphviz DOT to this file.").String()
	runExport  = runCommand.Flag("export", "Write a report of the final state into this directory.").String()
	runFormat  = runCommand.Flag("format", "Report format.").Default(string(production.FormatJSON)).Enum(string(production.FormatJSON), string(production.FormatYAML))
	runDump    = runCommand.Flag("dump", "Dump the raw phase records.").Bool()
)

func runCollection(*kingpin.ParseContext) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []gc.Option{
		gc.WithLogger(log),
		gc.WithWorkers(*runWorkers),
		gc.WithRegionSize(uint64(*runRegionSize)), //nolint:gosec
		gc.WithMaxCollectionRegions(*runMaxRegions),
	}
	if *runEvents {
		opts = append(opts, gc.WithPublisher(production.NewLogPublisher(log)))
	}

	m, c, err := setupCollection(log, opts)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := production.NewMetrics(reg)
	metrics.Attach(c, m)

	before := m.Stats()
	printStats("before", before)

	driver := realtime.NewDriver(c, realtime.Config{
		StepDelay: stepDelay(*runDelay),
		MaxSteps:  *runMaxSteps,
		Logger:    log,
	})

	steps, err := driver.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "run")
	}
	if err != nil {
		log.Warnw("interrupted", "steps", steps, "phase", string(c.Phase()))
	}

	printTimeline(c.Name(), c.CycleID(), c.Timeline())
	printStats("after", m.Stats())

	metrics.ObserveHeap(m)
	if *runMetrics {
		if err := printMetrics(reg); err != nil {
			return err
		}
	}

	if *runDump {
		fmt.Println(litter.Sdump(c.Timeline()))
	}

	return writeOutputs(ctx, c, m)
}

func setupCollection(log logging.Logger, opts []gc.Option) (*heap.Model, gc.Collector, error) {
	if *runScenario != "" {
		s, err := builder.LoadFile(*runScenario)
		if err != nil {
			return nil, nil, err
		}

		m, _, err := s.Build(log)
		if err != nil {
			return nil, nil, err
		}

		c, err := s.NewCollector(m, opts...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "scenario %q", s.Name)
		}
		return m, c, nil
	}

	kind, err := gc.ParseKind(*runCollector)
	if err != nil {
		return nil, nil, err
	}

	m := heap.NewModel()
	mu := workload.New(m, workload.Config{
		Seed:      *runSeed,
		Thread:    heap.DefaultThread,
		RootRatio: *runRoots,
	}, log)
	mu.Allocate(*runObjects)
	mu.Link(*runOutDegree, *runMaxEdges)

	c, err := gc.New(kind, m, opts...)
	if err != nil {
		return nil, nil, err
	}

	if *runCycle == "" {
		err = gc.StartAuto(c, m)
	} else {
		err = gc.StartCycle(c, *runCycle)
	}
	return m, c, err
}

func writeOutputs(ctx context.Context, c gc.Collector, m *heap.Model) error {
	if *runDot != "" {
		v := &production.HeapVisualizer{}
		if err := os.WriteFile(*runDot, []byte(v.ExportDOT(m.Snapshot(), c.Marked())), 0o600); err != nil {
			return errors.Wrap(err, "write dot")
		}
		fmt.Printf("heap graph written to %v\n", *runDot)
	}

	if *runExport != "" {
		e, err := production.NewFileExporter(*runExport, production.Format(*runFormat))
		if err != nil {
			return err
		}

		path, err := e.Export(ctx, production.NewReport(c, m))
		if err != nil {
			return err
		}
		fmt.Printf("report written to %v\n", path)
	}

	return nil
}

// stepDelay maps the zero flag value to the driver's "no delay" setting.
func stepDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

func init() {
	runCommand.Action(runCollection)
}
