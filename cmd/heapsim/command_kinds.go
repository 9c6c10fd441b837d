package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/comalice/heapsim/internal/gc"
)

//nolint:gochecknoglobals
var kindsCommand = app.Command("kinds", "List collectors and the phases of their cycles.")

func runKinds(*kingpin.ParseContext) error {
	for _, kind := range gc.Kinds() {
		cycles, err := gc.Sequences(kind)
		if err != nil {
			return err
		}

		fmt.Println(headerColor.Sprint(kind))
		for _, cycle := range cycles {
			phases := make([]string, len(cycle.Phases))
			for i, p := range cycle.Phases {
				phases[i] = string(p)
			}
			fmt.Printf("  %-12v %v\n", cycle.Name, strings.Join(phases, " -> "))
		}
	}
	return nil
}

func init() {
	kindsCommand.Action(runKinds)
}
