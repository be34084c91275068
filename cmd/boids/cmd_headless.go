package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/telemetry"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/structpb"
)

func newHeadlessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the flock without a window",
		Long: `Run the flock for a fixed number of ticks without a window.

Every tick advances the world by 1/ticksPerSecond of simulated time, as
fast as the machine allows. Telemetry rows go to --telemetry every
telemetryEvery ticks; the final metrics are printed on stdout.

Examples:
  boids headless --ticks 3600 --telemetry out/flock.csv
  boids headless -c configs/boids.yaml --seed 42 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ticks, _ := cmd.Flags().GetInt("ticks")
			csvPath, _ := cmd.Flags().GetString("telemetry")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if ticks < 0 {
				return fmt.Errorf("invalid tick count: %d", ticks)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stats, err := runHeadless(ctx, cmd, cfg, ticks, csvPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			m := stats.Metrics
			fmt.Fprintf(out, "ticks:        %d (%.1fs simulated)\n", stats.Tick, stats.SimTime)
			fmt.Fprintf(out, "boids:        %d\n", stats.Boids)
			fmt.Fprintf(out, "polarization: %.3f\n", m.Polarization)
			fmt.Fprintf(out, "nearest:      %.2f ± %.2f\n", m.NearestMean, m.NearestStdDev)
			fmt.Fprintf(out, "isolated:     %d\n", m.Isolated)
			fmt.Fprintf(out, "rules:        alignment %d, cohesion %d, separation %d (clamped %d)\n",
				m.Alignment, m.Cohesion, m.Separation, m.Clamped)
			return nil
		},
	}

	cmd.Flags().Int("ticks", 600, "Number of ticks to run")
	cmd.Flags().String("telemetry", "", "CSV file receiving telemetry rows")
	cmd.Flags().Bool("json", false, "Print the final stats as JSON")

	return cmd
}

// runHeadless drives a world actor tick by tick and returns its final stats.
// It stops early, without error, when ctx is cancelled.
func runHeadless(ctx context.Context, cmd *cobra.Command, cfg *simulation.Config, ticks int, csvPath string) (*simulation.Stats, error) {
	logger := newLogger(cmd)
	recorder, err := telemetry.CreateRecorder(csvPath, cfg.TelemetryEvery)
	if err != nil {
		return nil, err
	}

	system, err := startSystem(context.WithoutCancel(ctx), logger)
	if err != nil {
		_ = recorder.Close()
		return nil, err
	}
	defer system.Stop(context.WithoutCancel(ctx))

	frame := time.Second / time.Duration(cfg.TicksPerSecond)
	simulated := time.Now()
	world := simulation.NewWorldActor(cfg,
		simulation.WithRecorder(recorder),
		// per-agent clocks follow simulated time, not the wall clock
		simulation.WithClock(func() time.Time {
			simulated = simulated.Add(frame)
			return simulated
		}))
	pid, err := system.Spawn(ctx, "world", world)
	if err != nil {
		_ = recorder.Close()
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	tick := simulation.NewTick(frame)
	for i := 0; i < ticks && ctx.Err() == nil; i++ {
		if err := system.NoSender().Tell(ctx, pid, tick); err != nil {
			return nil, fmt.Errorf("tick %d: %w", i, err)
		}
	}

	// the mailbox is FIFO, so the answer comes after the last tick
	reply, err := actor.Ask(context.WithoutCancel(ctx), pid, simulation.NewStatsQuery(), time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	s, ok := reply.(*structpb.Struct)
	if !ok {
		return nil, fmt.Errorf("unexpected stats reply %T", reply)
	}
	return simulation.DecodeStats(s)
}
