package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

// ClockMode selects how the world measures the elapsed time of a tick.
type ClockMode string

const (
	// ClockShared steps every agent by the tick duration.
	ClockShared ClockMode = "shared"
	// ClockPerAgent steps every agent by the wall time since its own last update.
	ClockPerAgent ClockMode = "perAgent"
)

var (
	ErrInvalidPopulation = errors.New("number of boids must not be negative")
	ErrInvalidSpeed      = errors.New("speed and turn rate must not be negative")
	ErrInvalidTickRate   = errors.New("ticks per second must be positive")
	ErrInvalidClock      = errors.New("unknown clock mode")
	ErrInvalidSeed       = errors.New("seed must not exceed 2^53-1")
	ErrInvalidTelemetry  = errors.New("telemetry interval must be at least one tick")
)

// MaxSeed is the largest seed a JSON number carries without losing precision.
const MaxSeed = 1<<53 - 1

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	NumBoids int     `json:"numBoids"`
	SpeedX   float64 `json:"speedX"`
	SpeedY   float64 `json:"speedY"`

	// MaxTurnRate is in radians per second.
	MaxTurnRate float64 `json:"maxTurnRate"`

	// Perception
	PerceptionRadius float64 `json:"perceptionRadius"`
	MaxNeighbors     int     `json:"maxNeighbors"`

	// Rule thresholds
	SeparationDistance float64 `json:"separationDistance"`
	CrowdedDistance    float64 `json:"crowdedDistance"`
	SparseDistance     float64 `json:"sparseDistance"`

	Alignment flock.AlignmentMode `json:"alignment"`
	Clock     ClockMode           `json:"clock"`

	TicksPerSecond int `json:"ticksPerSecond"`
	// Seed feeds the spawn generator; 0 picks a random seed.
	Seed uint64 `json:"seed"`
	// TelemetryEvery is the number of ticks between two telemetry rows.
	TelemetryEvery int `json:"telemetryEvery"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:         640,
		WorldHeight:        480,
		NumBoids:           100,
		SpeedX:             20,
		SpeedY:             20,
		MaxTurnRate:        1.0,
		PerceptionRadius:   flock.DefaultPerceptionRadius,
		MaxNeighbors:       flock.DefaultMaxNeighbors,
		SeparationDistance: flock.DefaultSeparationDistance,
		CrowdedDistance:    flock.DefaultCrowdedDistance,
		SparseDistance:     flock.DefaultSparseDistance,
		Alignment:          flock.AlignmentArithmetic,
		Clock:              ClockShared,
		TicksPerSecond:     60,
		TelemetryEvery:     60,
	}
}

// Params returns the flock tuning described by c.
func (c *Config) Params() flock.Params {
	return flock.Params{
		WorldWidth:         c.WorldWidth,
		WorldHeight:        c.WorldHeight,
		PerceptionRadius:   c.PerceptionRadius,
		MaxNeighbors:       c.MaxNeighbors,
		SeparationDistance: c.SeparationDistance,
		CrowdedDistance:    c.CrowdedDistance,
		SparseDistance:     c.SparseDistance,
		Alignment:          c.Alignment,
	}
}

// Speed returns the per-axis speed of every boid.
func (c *Config) Speed() geometry.Vector2D {
	return geometry.Vector2D{X: c.SpeedX, Y: c.SpeedY}
}

// Validate reports every problem found in c.
func (c *Config) Validate() error {
	var errs []error
	if c.NumBoids < 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidPopulation, c.NumBoids))
	}
	if c.SpeedX < 0 || c.SpeedY < 0 || c.MaxTurnRate < 0 {
		errs = append(errs, ErrInvalidSpeed)
	}
	if c.TicksPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidTickRate, c.TicksPerSecond))
	}
	if c.Seed > MaxSeed {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidSeed, c.Seed))
	}
	if c.TelemetryEvery < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidTelemetry, c.TelemetryEvery))
	}
	switch c.Clock {
	case ClockShared, ClockPerAgent:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidClock, c.Clock))
	}
	errs = append(errs, c.Params().Validate())
	return errors.Join(errs...)
}

// LoadConfig loads a JSON or YAML configuration file, validates it against the
// embedded schema and fills the missing fields from DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	doc := raw
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		if doc, err = yamlToJSON(raw); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml %s: %w", configFile, err)
		}
	}

	cfg, err := ParseConfig(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	return cfg, nil
}

// ParseConfig validates a JSON document against the schema and decodes it over the defaults.
func ParseConfig(doc []byte) (*Config, error) {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var v map[string]interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = map[string]interface{}{}
	}
	return json.Marshal(v)
}
