package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/render"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open a window and watch the flock",
		Long: `Open a window and watch the flock.

The side panel tunes the perception radius, the neighbor limit, the rule
thresholds, the turn rate and the alignment mode while the flock runs.
H hides the panel, Space pauses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd)
			ctx := context.Background()

			system, err := startSystem(ctx, logger)
			if err != nil {
				return err
			}
			defer system.Stop(ctx)

			ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
			ebiten.SetWindowTitle(fmt.Sprintf("Boids: %d agents", cfg.NumBoids))
			ebiten.SetTPS(cfg.TicksPerSecond)

			game, err := render.NewGame(ctx, system, cfg, logger)
			if err != nil {
				return err
			}
			return ebiten.RunGame(game)
		},
	}
}
