package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/telemetry"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// The world actor understands three messages:
//
//	*durationpb.Duration  advance the world by one tick of that length
//	*structpb.Struct      change tunables (keys are Config JSON names)
//	*emptypb.Empty        ask for Stats, answered with a *structpb.Struct

var ErrNotTunable = errors.New("field cannot be changed at runtime")

// tunables are the Config fields a running world accepts in an update.
var tunables = []string{
	"maxTurnRate",
	"perceptionRadius",
	"maxNeighbors",
	"separationDistance",
	"crowdedDistance",
	"sparseDistance",
	"alignment",
	"telemetryEvery",
}

// Stats is the answer to a stats query.
type Stats struct {
	Tick    uint64            `json:"tick"`
	// SimTime is the integrated time in seconds. With the per-agent clock it
	// follows the world clock, not the tick durations.
	SimTime float64           `json:"simTime"`
	Boids   int               `json:"boids"`
	Metrics telemetry.Metrics `json:"metrics"`
	Config  Config            `json:"config"`
}

func NewTick(elapsed time.Duration) *durationpb.Duration {
	return durationpb.New(elapsed)
}

func NewStatsQuery() *emptypb.Empty {
	return &emptypb.Empty{}
}

// NewConfigUpdate encodes changes as an update message. Keys use the Config
// JSON names, e.g. {"perceptionRadius": 80}.
func NewConfigUpdate(changes map[string]interface{}) (*structpb.Struct, error) {
	for key := range changes {
		if !slices.Contains(tunables, key) {
			return nil, fmt.Errorf("%w: %s", ErrNotTunable, key)
		}
	}
	return structpb.NewStruct(changes)
}

// ApplyUpdate returns a copy of cfg with the update applied and validated.
// cfg is left untouched when the update is rejected.
func ApplyUpdate(cfg *Config, update *structpb.Struct) (*Config, error) {
	for key := range update.GetFields() {
		if !slices.Contains(tunables, key) {
			return nil, fmt.Errorf("%w: %s", ErrNotTunable, key)
		}
	}
	next := *cfg
	if err := fromStruct(update, &next); err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// DecodeStats reads the answer of a stats query.
func DecodeStats(s *structpb.Struct) (*Stats, error) {
	var stats Stats
	if err := fromStruct(s, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v interface{}) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return nil
}
