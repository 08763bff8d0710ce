package main

import (
	"context"
	"fmt"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/config"
	"github.com/philipparndt/arboard/internal/session"
	"github.com/philipparndt/arboard/internal/sim"
)

// run is a replayed scenario
type run struct {
	scenario *sim.Scenario
	world    *sim.World
	boards   *board.Manager
	session  *session.Session
	board    board.Board
}

// replay loads a scenario and plays its events through a new session. The
// returned run is valid even when the session did not complete.
func replay(ctx context.Context, path string, cfg *config.Config) (*run, error) {
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	world, err := sc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario %s: %w", path, err)
	}

	r := &run{
		scenario: sc,
		world:    world,
		boards:   board.NewManager(cfg.BoardProbeDistance, cfg.TiltThreshold),
	}
	r.session = session.New(session.Options{
		Tracker:   world,
		HitTester: world,
		Camera:    sc.Viewport(),
		Presenter: world,
		Spawner:   world,
		Boards:    r.boards,
		Config:    cfg,
	})

	// Stops the player when the session completes before the last event
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := sim.NewPlayer(sc).Stream(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to resolve events: %w", err)
	}
	r.board, err = r.session.Run(ctx, events)
	return r, err
}
