package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/stream"
	golog "github.com/tochemey/goakt/v3/log"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output = %q; want it to contain %q", out, version)
	}
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(good, []byte("numBoids: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`{"maxNeighbors": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{"valid", []string{"validate", good}, false, "✓ " + good},
		{"invalid", []string{"validate", good, bad}, true, "✗ " + bad},
		{"print", []string{"validate", "--print", good}, false, `"numBoids": 12`},
		{"repo configs", []string{"validate", "../../configs/boids.json", "../../configs/boids.yaml"}, false, "✓"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate error = %v; wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q; want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestHeadlessCmd(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "flock.csv")

	out, err := execute(t, "headless", "--boids", "40", "--seed", "5", "--ticks", "120", "--telemetry", csvPath, "--json")
	if err != nil {
		t.Fatalf("headless = %v", err)
	}

	var stats simulation.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("output is not JSON stats: %v\n%s", err, out)
	}
	if stats.Tick != 120 || stats.Boids != 40 {
		t.Errorf("Tick, Boids = %d, %d; want 120, 40", stats.Tick, stats.Boids)
	}
	if stats.Config.Seed != 5 {
		t.Errorf("Config.Seed = %d; want 5", stats.Config.Seed)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	// telemetryEvery defaults to 60: header, tick 60 and tick 120
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("telemetry has %d lines; want 3:\n%s", len(lines), data)
	}
}

func TestHeadlessCmd_SameSeedSameResult(t *testing.T) {
	run := func() string {
		out, err := execute(t, "headless", "--boids", "30", "--seed", "9", "--ticks", "90", "--json")
		if err != nil {
			t.Fatalf("headless = %v", err)
		}
		return out
	}
	if a, b := run(), run(); a != b {
		t.Errorf("two runs with the same seed differ:\n%s\n%s", a, b)
	}
}

func TestLoadConfig_RejectsBadOverride(t *testing.T) {
	if _, err := execute(t, "headless", "--boids", "-3", "--ticks", "1"); err == nil {
		t.Error("headless --boids -3 = nil; want an error")
	}
}

func TestLoadConfig_RejectsUnrepresentableSeed(t *testing.T) {
	for _, seed := range []string{"9007199254740992", "18446744073709551615"} {
		t.Run(seed, func(t *testing.T) {
			_, err := execute(t, "headless", "--seed", seed, "--ticks", "1")
			if !errors.Is(err, simulation.ErrInvalidSeed) {
				t.Errorf("headless --seed %s = %v; want %v", seed, err, simulation.ErrInvalidSeed)
			}
		})
	}
}

func TestBroadcastSnapshots_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan *simulation.WorldSnapshot)
	done := make(chan struct{})
	go func() {
		broadcastSnapshots(ctx, snapshots, stream.NewHub(golog.DiscardLogger, nil))
		close(done)
	}()

	snapshots <- &simulation.WorldSnapshot{Tick: 1}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcastSnapshots() still running after cancel")
	}
}
