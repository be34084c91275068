package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boids",
		Short: "Boids flocking on a wrap-around world",
		Long: `boids steers a flock of agents with the alignment, cohesion and
separation rules on a toroidal 2-D world.

Run it in a window, headless with CSV telemetry, or as a websocket
server streaming snapshots to browsers.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "JSON or YAML config file (defaults when empty)")
	rootCmd.PersistentFlags().Int("boids", 0, "Override the number of boids")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Override the spawn seed")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "No logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newHeadlessCmd(),
		newServeCmd(),
		newValidateCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "boids version %s\n", version)
		},
	}
}

// loadConfig reads --config and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = simulation.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("boids") {
		cfg.NumBoids, _ = cmd.Flags().GetInt("boids")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) golog.Logger {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return golog.DiscardLogger
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return golog.New(golog.DebugLevel, cmd.ErrOrStderr())
	}
	return golog.New(golog.InfoLevel, cmd.ErrOrStderr())
}

func startSystem(ctx context.Context, logger golog.Logger) (actor.ActorSystem, error) {
	system, err := actor.NewActorSystem("BoidsWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	return system, nil
}
