package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/stream"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream the flock to websocket clients",
		Long: `Run the flock in real time and stream every snapshot as JSON to the
clients connected on /ws.

A client can tune the running flock by sending a JSON object with any of
maxTurnRate, perceptionRadius, maxNeighbors, separationDistance,
crowdedDistance, sparseDistance, alignment or telemetryEvery. Rejected
changes are answered with {"error": "..."}.

Examples:
  boids serve --addr :8080
  boids serve -c configs/boids.json --telemetry out/live.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			csvPath, _ := cmd.Flags().GetString("telemetry")
			logger := newLogger(cmd)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			recorder, err := telemetry.CreateRecorder(csvPath, cfg.TelemetryEvery)
			if err != nil {
				return err
			}
			system, err := startSystem(context.WithoutCancel(ctx), logger)
			if err != nil {
				_ = recorder.Close()
				return err
			}
			defer system.Stop(context.WithoutCancel(ctx))

			snapshots := make(chan *simulation.WorldSnapshot, 4)
			pid, err := system.Spawn(ctx, "world", simulation.NewWorldActor(cfg,
				simulation.WithSnapshots(snapshots),
				simulation.WithRecorder(recorder)))
			if err != nil {
				_ = recorder.Close()
				return fmt.Errorf("failed to spawn world: %w", err)
			}

			// current mirrors the world config so bad values are refused before reaching it
			var mu sync.Mutex
			current := cfg
			hub := stream.NewHub(logger, func(changes map[string]interface{}) error {
				update, err := simulation.NewConfigUpdate(changes)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				next, err := simulation.ApplyUpdate(current, update)
				if err != nil {
					return err
				}
				current = next
				return system.NoSender().Tell(ctx, pid, update)
			})
			defer hub.Close()

			mux := http.NewServeMux()
			mux.Handle("/ws", hub)
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			serverErr := make(chan error, 1)
			go func() {
				logger.Infof("streaming on ws://%s/ws", addr)
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()
			// stop cancels ctx on every return path, which ends the broadcaster
			go broadcastSnapshots(ctx, snapshots, hub)

			ticker := time.NewTicker(time.Second / time.Duration(cfg.TicksPerSecond))
			defer ticker.Stop()
			tick := simulation.NewTick(time.Second / time.Duration(cfg.TicksPerSecond))
			for {
				select {
				case <-ctx.Done():
					logger.Info("shutting down")
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
					defer cancel()
					return server.Shutdown(shutdownCtx)
				case err, ok := <-serverErr:
					if ok {
						return fmt.Errorf("server failed: %w", err)
					}
				case <-ticker.C:
					if err := system.NoSender().Tell(ctx, pid, tick); err != nil {
						logger.Warnf("tick: %v", err)
					}
				}
			}
		},
	}

	cmd.Flags().String("addr", "localhost:8080", "Listen address")
	cmd.Flags().String("telemetry", "", "CSV file receiving telemetry rows")

	return cmd
}

// broadcastSnapshots forwards world snapshots to the hub until ctx is done.
func broadcastSnapshots(ctx context.Context, snapshots <-chan *simulation.WorldSnapshot, hub *stream.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-snapshots:
			hub.Broadcast(snap)
		}
	}
}
