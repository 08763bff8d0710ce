package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/config"
	"github.com/philipparndt/arboard/internal/session"
	"github.com/philipparndt/arboard/pkg/analysis"
	"github.com/philipparndt/arboard/pkg/openscad"
	"github.com/philipparndt/arboard/pkg/stl"
	"github.com/philipparndt/arboard/pkg/viewer"
	"github.com/philipparndt/arboard/pkg/watcher"
)

var (
	exportFile     string
	exportBinary   bool
	boardThickness float64
	snapshotFile   string
	supersample    int
	watchScenario  bool
	renderSCAD     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario]",
	Short: "Replay a placement session and report the board",
	Long: `Replay the pointer events of a scenario through surface selection and
beacon placement, then print the confirmed surface, the rectangle, the board
transform and whether each tracked image lies on the board.`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&exportFile, "export", "e", "", "Write the board as an STL or .scad file")
	simulateCmd.Flags().BoolVar(&exportBinary, "binary", false, "Write binary instead of ASCII STL")
	simulateCmd.Flags().BoolVar(&renderSCAD, "render", false, "Render a .scad export to STL with openscad")
	simulateCmd.Flags().Float64Var(&boardThickness, "thickness", 0.01, "Board thickness for the STL export")
	simulateCmd.Flags().StringVarP(&snapshotFile, "snapshot", "s", "", "Render the final scene to a PNG file")
	simulateCmd.Flags().IntVar(&supersample, "supersample", 2, "Snapshot supersampling factor")
	simulateCmd.Flags().BoolVarP(&watchScenario, "watch", "w", false, "Replay whenever the scenario file changes")
}

func runSimulate(cmd *cobra.Command, args []string) {
	path := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !watchScenario {
		if err := simulate(ctx, path, cfg); err != nil {
			fail("%v", err)
		}
		return
	}

	if err := simulate(ctx, path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		fail("%v", err)
	}
	defer fw.Close()

	fw.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
	}
	err = fw.Watch([]string{path}, func(string) {
		fmt.Printf("\n%s changed, replaying\n\n", path)
		if err := simulate(ctx, path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Watching %s, press Ctrl+C to stop\n", path)
	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fail("%v", err)
	}
}

// simulate replays the scenario once and prints the outcome
func simulate(ctx context.Context, path string, cfg *config.Config) error {
	r, err := replay(ctx, path, cfg)
	if r != nil && snapshotFile != "" {
		if serr := writeSnapshot(r); serr != nil {
			return serr
		}
	}
	if err != nil {
		if errors.Is(err, session.ErrIncomplete) {
			printProgress(r)
		}
		return err
	}

	printBoard(path, r)

	if exportFile != "" {
		return export(ctx, r)
	}
	return nil
}

// export writes the board as STL, or as OpenSCAD for a .scad file name
func export(ctx context.Context, r *run) error {
	res, _ := r.session.Result()

	if strings.EqualFold(filepath.Ext(exportFile), ".scad") {
		if err := openscad.WriteBoardFile(exportFile, "board", res.Transform.Matrix(), board.NativeSize, boardThickness); err != nil {
			return err
		}
		fmt.Printf("\nExported OpenSCAD model to %s\n", exportFile)
		if !renderSCAD {
			return nil
		}
		out := strings.TrimSuffix(exportFile, filepath.Ext(exportFile)) + ".stl"
		renderer := openscad.NewRenderer(filepath.Dir(exportFile))
		if err := renderer.RenderToSTL(ctx, filepath.Base(exportFile), filepath.Base(out)); err != nil {
			return err
		}
		fmt.Printf("Rendered %s\n", out)
		return nil
	}

	model := stl.BoardModel("board", res.Rectangle.Corners, res.Transform.Up(), boardThickness)
	if err := stl.WriteFile(exportFile, model, exportBinary); err != nil {
		return err
	}
	fmt.Printf("\nExported %d triangles to %s\n", model.TriangleCount(), exportFile)
	return nil
}

func printBoard(path string, r *run) {
	sf, _ := r.session.Surface()
	res, _ := r.session.Result()
	report := analysis.AnalyzeBoard(res.Rectangle)

	fmt.Println("Board Placement")
	fmt.Println("===============")
	fmt.Printf("Scenario: %s\n", path)
	fmt.Printf("Surface: %s (%s)\n", sf.Name, sf.ID)
	fmt.Printf("Board: %s\n\n", r.board.ID)

	fmt.Println("Corners:")
	for _, e := range report.Edges {
		fmt.Printf("  %-6s %s\n", e.Name, analysis.FormatVector(e.Start))
	}

	q := res.Transform.Rotation.Quat()
	fmt.Println("\nTransform:")
	fmt.Printf("  Position: %s\n", analysis.FormatVector(res.Transform.Position))
	fmt.Printf("  Rotation: (w=%.6f, x=%.6f, y=%.6f, z=%.6f)\n", q.W, q.V[0], q.V[1], q.V[2])
	fmt.Printf("  Scale:    %s\n", analysis.FormatVector(res.Transform.Scale))

	fmt.Println("\nMeasurements:")
	fmt.Printf("  Length:       %s\n", analysis.FormatMeasurement(report.Length, ""))
	fmt.Printf("  Height:       %s\n", analysis.FormatMeasurement(report.Height, ""))
	fmt.Printf("  Area:         %s\n", analysis.FormatMeasurement(report.Area, "square units"))
	fmt.Printf("  Perimeter:    %s\n", analysis.FormatMeasurement(report.Perimeter, ""))
	fmt.Printf("  Diagonal:     %s\n", analysis.FormatMeasurement(report.Diagonal, ""))
	fmt.Printf("  Aspect ratio: %.4f\n", report.AspectRatio)
	fmt.Printf("  Normal:       %s\n", analysis.FormatVector(report.Normal))

	images := r.world.Images()
	if len(images) == 0 {
		return
	}
	fmt.Println("\nImages:")
	for _, img := range images {
		verdict := r.boards.ImageIsOnBoard(img.Pose)
		fmt.Printf("  %-12s tracking:%-8s %s\n", img.Name, img.State, describe(verdict))
	}
}

func printProgress(r *run) {
	fmt.Printf("Session ended while %s\n", r.session.Stage())
	if id, ok := r.session.Selector().Focused(); ok {
		fmt.Printf("  Focused surface: %s\n", r.world.Name(id))
	}
	if r.session.Stage() == session.Building {
		fmt.Printf("  Beacon phase: %s\n", r.session.Builder().Phase())
	}
}

func describe(v board.Verdict) string {
	if v.OK() {
		return "on board"
	}
	return "not on board (" + v.String() + ")"
}

func writeSnapshot(r *run) error {
	cam := r.scenario.ViewerCamera()
	img := viewer.Snapshot(r.world.Scene(), cam, viewer.SnapshotOptions{
		Width:       int(r.scenario.Camera.Width),
		Height:      int(r.scenario.Camera.Height),
		Supersample: supersample,
	})
	if err := viewer.WritePNG(snapshotFile, img); err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s\n", snapshotFile)
	return nil
}
