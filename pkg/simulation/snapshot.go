package simulation

import (
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/telemetry"
)

// BoidView is what a renderer needs to draw one boid.
type BoidView struct {
	Position geometry.Vector2D    `json:"position"`
	Heading  float64              `json:"heading"`
	Vertices [3]geometry.Vector2D `json:"vertices"`
	Rule     string               `json:"rule"`
}

// WorldSnapshot is a read-only copy of the world after a tick.
type WorldSnapshot struct {
	Tick        uint64            `json:"tick"`
	WorldWidth  float64           `json:"worldWidth"`
	WorldHeight float64           `json:"worldHeight"`
	Boids       []BoidView        `json:"boids"`
	Metrics     telemetry.Metrics `json:"metrics"`
}

// NewWorldSnapshot copies agents into a snapshot. steering may be nil before the first step.
func NewWorldSnapshot(tick uint64, p flock.Params, agents []flock.Agent, steering []flock.Steering, m telemetry.Metrics) *WorldSnapshot {
	snapshot := &WorldSnapshot{
		Tick:        tick,
		WorldWidth:  p.WorldWidth,
		WorldHeight: p.WorldHeight,
		Boids:       make([]BoidView, len(agents)),
		Metrics:     m,
	}
	for i, a := range agents {
		rule := flock.RuleNone
		if i < len(steering) {
			rule = steering[i].Rule
		}
		snapshot.Boids[i] = BoidView{
			Position: a.Position,
			Heading:  a.Heading,
			Vertices: a.Vertices(),
			Rule:     rule.String(),
		}
	}
	return snapshot
}
