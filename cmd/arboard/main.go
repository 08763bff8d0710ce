package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/arboard/internal/config"
	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/version"
)

var (
	configFile string
	quiet      bool

	raycastDistance    float64
	scaleFactor        float64
	minEdgeLength      float64
	boardProbeDistance float64
	tiltThreshold      float64
)

var rootCmd = &cobra.Command{
	Use:   "arboard",
	Short: "Place boards on detected surfaces from scripted AR sessions",
	Long: `arboard replays AR placement sessions against a simulated environment.
A scenario file describes the camera, the detected surfaces, the pointer
events of the user and the tracked images. The session picks a surface,
places three beacons to span a rectangle and spawns a board on it.`,
	Version: version.GetFullVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logging.Mute()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "YAML config file")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Mute component logs")
	flags.Float64Var(&raycastDistance, "raycast-distance", config.DefaultRaycastDistance, "Max distance of the surface-picking ray")
	flags.Float64Var(&scaleFactor, "scale-factor", config.DefaultScaleFactor, "World units to board scale")
	flags.Float64Var(&minEdgeLength, "min-edge-length", config.DefaultMinEdgeLength, "Shortest accepted rectangle edge")
	flags.Float64Var(&boardProbeDistance, "probe-distance", config.DefaultBoardProbeDistance, "Half length of the image-on-board probe")
	flags.Float64Var(&tiltThreshold, "tilt-threshold", config.DefaultTiltThreshold, "Minimum dot(image up, board up)")
}

// loadConfig layers defaults, the config file, the environment and the
// flags the user set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		if err := cfg.MergeFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		src  float64
		dst  *float64
	}{
		{"raycast-distance", raycastDistance, &cfg.RaycastDistance},
		{"scale-factor", scaleFactor, &cfg.ScaleFactor},
		{"min-edge-length", minEdgeLength, &cfg.MinEdgeLength},
		{"probe-distance", boardProbeDistance, &cfg.BoardProbeDistance},
		{"tilt-threshold", tiltThreshold, &cfg.TiltThreshold},
	}
	for _, o := range overrides {
		if f := cmd.Flag(o.flag); f != nil && f.Changed {
			*o.dst = o.src
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fail(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", v...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
