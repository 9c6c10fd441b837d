package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/comalice/heapsim/builder"
	"github.com/comalice/heapsim/internal/heap"
)

//nolint:gochecknoglobals
var (
	pathsCommand  = app.Command("paths", "Show why a scenario object is still alive.")
	pathsScenario = pathsCommand.Arg("scenario", "YAML scenario.").Required().ExistingFile()
	pathsObject   = pathsCommand.Arg("object", "Object name from the scenario.").Required().String()
	pathsMax      = pathsCommand.Flag("max", "Maximum number of paths.").Default("5").Int()
)

func runPaths(*kingpin.ParseContext) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	s, err := builder.LoadFile(*pathsScenario)
	if err != nil {
		return err
	}

	m, names, err := s.Build(log)
	if err != nil {
		return err
	}

	id, ok := names[*pathsObject]
	if !ok {
		return errors.Wrap(builder.ErrUnknownObject, *pathsObject)
	}

	byID := make(map[heap.ObjectID]string, len(names))
	for name, oid := range names {
		byID[oid] = name
	}

	paths := m.PathsToRoots(id, *pathsMax)
	if len(paths) == 0 {
		fmt.Printf("%v is unreachable\n", *pathsObject)
		return nil
	}

	for _, p := range paths {
		for i, oid := range p.IDs {
			if i > 0 {
				fmt.Print(" <- ")
			}
			label := oid.String()
			if name, ok := byID[oid]; ok {
				label = name
			}
			fmt.Print(label)
		}
		fmt.Println(rootColor.Sprint(" [root]"))
	}
	return nil
}

func init() {
	pathsCommand.Action(runPaths)
}
