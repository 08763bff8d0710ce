package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/arboard/internal/sim"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [file]",
	Short: "Validate a scenario file and summarise it",
	Args:  cobra.ExactArgs(1),
	Run:   runScenario,
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) {
	filename := args[0]

	sc, err := sim.LoadScenario(filename)
	if err != nil {
		fail("%v", err)
	}
	if _, err := sc.Build(); err != nil {
		fail("%v", err)
	}
	events, err := sim.NewPlayer(sc).Events()
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("Scenario")
	fmt.Println("========")
	fmt.Printf("File: %s\n\n", filename)

	c := sc.Camera
	fmt.Println("Camera:")
	fmt.Printf("  Position: %s\n", c.Position.Vector())
	fmt.Printf("  Target:   %s\n", c.Target.Vector())
	fmt.Printf("  FOV:      %.1f degrees\n", c.FOV)
	fmt.Printf("  Screen:   %.0fx%.0f\n\n", c.Width, c.Height)

	fmt.Printf("Surfaces (%d):\n", len(sc.Surfaces))
	for _, s := range sc.Surfaces {
		fmt.Printf("  %-12s %d points\n", s.Name, len(s.Polygon))
	}

	fmt.Printf("\nEvents (%d):\n", len(events))
	for i, ev := range events {
		fmt.Printf("  %2d %s\n", i, ev)
	}

	if len(sc.Images) > 0 {
		fmt.Printf("\nImages (%d):\n", len(sc.Images))
		for _, img := range sc.Images {
			fmt.Printf("  %-12s at %s up %s (%s)\n", img.Name, img.Position.Vector(), img.Up.Vector(), img.Tracking)
		}
	}
}
