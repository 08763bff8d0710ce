package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/arboard/internal/tracking"
)

var (
	checkDuration time.Duration
	pollInterval  time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check [scenario]",
	Short: "Place the board, then monitor the tracked images",
	Long: `Replay the scenario to place the board, then poll every tracked image
of the scenario and log whether it lies on the board until the duration
elapses or the command is interrupted.`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVarP(&checkDuration, "duration", "d", 3*time.Second, "How long to monitor the images")
	checkCmd.Flags().DurationVar(&pollInterval, "interval", 0, "Polling interval (config value if zero)")
}

func runCheck(cmd *cobra.Command, args []string) {
	path := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("%v", err)
	}
	if pollInterval > 0 {
		cfg.PollInterval = pollInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := replay(ctx, path, cfg)
	if err != nil {
		fail("%v", err)
	}

	images := r.world.Images()
	if len(images) == 0 {
		fmt.Println("Scenario has no tracked images")
		return
	}

	changes := make(chan tracking.Change, len(images))
	for _, img := range images {
		changes <- tracking.Change{Kind: tracking.Added, Image: tracking.Image{ID: img.ID, Name: img.Name}}
	}

	monitor := tracking.NewMonitor(r.world, r.boards, cfg.PollInterval)
	runCtx, cancel := context.WithTimeout(ctx, checkDuration)
	defer cancel()

	fmt.Printf("Monitoring %d image(s) every %s for %s\n", len(images), cfg.PollInterval, checkDuration)
	if err := monitor.Run(runCtx, changes); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		fail("%v", err)
	}

	fmt.Println("\nLast reports:")
	for _, rep := range monitor.Snapshot() {
		fmt.Printf("  %s (%s)\n", rep, rep.Verdict)
	}
}
