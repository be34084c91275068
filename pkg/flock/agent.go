// Package flock implements the steering core of a 2-D boids flock living on a torus.
//
// Each tick the driver takes a copy of the whole flock, then every agent looks
// up its neighbors in that copy, picks a target heading from the alignment,
// cohesion and separation rules, turns toward it no faster than its turn rate
// and moves along its new heading. Reads only touch the copy, so the order in
// which agents are updated inside a tick never matters.
package flock

import (
	"math"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// baseShape is the agent triangle at heading 0, tip first.
var baseShape = [3]geometry.Vector2D{
	{X: 0, Y: -5},
	{X: -5, Y: 5},
	{X: 5, Y: 5},
}

// Agent is a single boid.
type Agent struct {
	Position geometry.Vector2D `json:"position"`
	// Heading is in radians, kept in [0, 2π).
	Heading float64 `json:"heading"`
	// Speed scales the unit heading vector per axis.
	Speed geometry.Vector2D `json:"speed"`
	// MaxTurnRate is the heading change allowed per second, in radians.
	MaxTurnRate float64 `json:"maxTurnRate"`
	// LastUpdate is the agent's own clock, only used by Flock.StepAt.
	LastUpdate time.Time `json:"-"`
}

// NewAgent creates an agent facing heading.
func NewAgent(position, speed geometry.Vector2D, heading, maxTurnRate float64) Agent {
	return Agent{
		Position:    position,
		Heading:     geometry.NormalizeAngle(heading),
		Speed:       speed,
		MaxTurnRate: maxTurnRate,
	}
}

// Velocity is the displacement per second along the current heading.
func (a Agent) Velocity() geometry.Vector2D {
	sin, cos := math.Sincos(a.Heading)
	return geometry.Vector2D{X: sin, Y: cos}.Scale(a.Speed)
}

// Shape returns the triangle offsets oriented by the heading.
// They are rebuilt from the base triangle on every call so no rotation error piles up.
func (a Agent) Shape() [3]geometry.Vector2D {
	var s [3]geometry.Vector2D
	for i, p := range baseShape {
		s[i] = p.Rotate(a.Heading)
	}
	return s
}

// Vertices returns the triangle in world coordinates, ready to draw.
func (a Agent) Vertices() [3]geometry.Vector2D {
	s := a.Shape()
	for i := range s {
		s[i] = s[i].Add(a.Position)
	}
	return s
}
