package simulation

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	p := cfg.Params()
	want := flock.DefaultParams(640, 480)
	if p != want {
		t.Errorf("Params() = %+v; want %+v", p, want)
	}
	if cfg.NumBoids != 100 || cfg.TicksPerSecond != 60 {
		t.Errorf("NumBoids, TicksPerSecond = %d, %d; want 100, 60", cfg.NumBoids, cfg.TicksPerSecond)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "boids.json",
			content: `{"worldWidth": 800, "numBoids": 250, "alignment": "circular", "seed": 42}`,
		},
		{
			name:    "yaml",
			file:    "boids.yaml",
			content: "worldWidth: 800\nnumBoids: 250\nalignment: circular\nseed: 42\n",
		},
		{
			name:    "yml",
			file:    "boids.yml",
			content: "worldWidth: 800.0\nnumBoids: 250\nalignment: circular\nseed: 42\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig() = %v", err)
			}
			if cfg.WorldWidth != 800 || cfg.NumBoids != 250 || cfg.Seed != 42 {
				t.Errorf("WorldWidth, NumBoids, Seed = %v, %d, %d; want 800, 250, 42", cfg.WorldWidth, cfg.NumBoids, cfg.Seed)
			}
			if cfg.Alignment != flock.AlignmentCircular {
				t.Errorf("Alignment = %q; want circular", cfg.Alignment)
			}
			// fields missing from the file keep their defaults
			if cfg.WorldHeight != 480 || cfg.PerceptionRadius != 50 || cfg.Clock != ClockShared {
				t.Errorf("WorldHeight, PerceptionRadius, Clock = %v, %v, %q; want defaults", cfg.WorldHeight, cfg.PerceptionRadius, cfg.Clock)
			}
		})
	}
}

func TestLoadConfig_EmptyYAMLGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("LoadConfig() = %+v; want defaults", cfg)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown field", "a.json", `{"numRedAtStart": 5}`, "validation failed"},
		{"negative radius", "b.json", `{"perceptionRadius": -1}`, "validation failed"},
		{"bad alignment", "c.yaml", "alignment: median\n", "validation failed"},
		{"fractional population", "d.json", `{"numBoids": 2.5}`, "validation failed"},
		{"broken json", "e.json", `{"numBoids": `, "decode"},
		{"broken yaml", "f.yaml", "numBoids: [1,\n", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() = nil; want an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() = %v; want it to mention %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v; want %v", err, os.ErrNotExist)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   error
	}{
		{"population", func(c *Config) { c.NumBoids = -1 }, ErrInvalidPopulation},
		{"speed", func(c *Config) { c.SpeedY = -2 }, ErrInvalidSpeed},
		{"turn rate", func(c *Config) { c.MaxTurnRate = -0.1 }, ErrInvalidSpeed},
		{"tick rate", func(c *Config) { c.TicksPerSecond = 0 }, ErrInvalidTickRate},
		{"clock", func(c *Config) { c.Clock = "lunar" }, ErrInvalidClock},
		{"seed", func(c *Config) { c.Seed = MaxSeed + 1 }, ErrInvalidSeed},
		{"max uint64 seed", func(c *Config) { c.Seed = math.MaxUint64 }, ErrInvalidSeed},
		{"telemetry interval", func(c *Config) { c.TelemetryEvery = 0 }, ErrInvalidTelemetry},
		{"flock params", func(c *Config) { c.MaxNeighbors = 0 }, flock.ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestConfigFilesInRepoAreValid(t *testing.T) {
	for _, name := range []string{"boids.json", "boids.yaml"} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join("..", "..", "configs", name)); err != nil {
				t.Errorf("LoadConfig(%s) = %v", name, err)
			}
		})
	}
}
