package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// Rule names the heading an agent steered toward during an update.
type Rule int

const (
	// RuleNone means the agent saw no neighbor and kept its heading.
	RuleNone Rule = iota
	RuleAlignment
	RuleCohesion
	RuleSeparation
)

func (r Rule) String() string {
	switch r {
	case RuleAlignment:
		return "alignment"
	case RuleCohesion:
		return "cohesion"
	case RuleSeparation:
		return "separation"
	default:
		return "none"
	}
}

// Steering describes the decision taken for one agent during one update.
type Steering struct {
	Neighbors int
	// Closest is the distance to the nearest neighbor, meaningless when Neighbors is 0.
	Closest float64

	Alignment  float64
	Cohesion   float64
	Separation float64

	Rule   Rule
	Target float64
	// Turn is the normalized heading change before the turn rate limit.
	Turn float64
	// Applied is the heading change actually applied.
	Applied float64
	Clamped bool
}

// Steer picks the target heading for a from its neighbors and limits the turn
// to what MaxTurnRate allows in elapsed seconds. It does not modify a.
//
// The nearest neighbor decides the rule: at or beyond SparseDistance the agent
// heads for the centroid, at or below CrowdedDistance it flees its nearest
// neighbor, and in between it follows the mean heading. Separation is checked
// last and wins when both thresholds match.
func (a Agent) Steer(local LocalFlock, elapsed float64, p Params) Steering {
	s := Steering{
		Neighbors:  local.Len(),
		Alignment:  a.Alignment(local, p.Alignment),
		Cohesion:   a.Cohesion(local),
		Separation: a.Separation(local, p.SeparationDistance),
	}
	_, closest, found := local.Nearest()
	s.Closest = closest
	s.Target = s.Alignment
	if found {
		s.Rule = RuleAlignment
	}

	s.Turn = s.Target - a.Heading
	if found && math.Abs(a.Heading-s.Alignment) > 0 {
		if closest >= p.SparseDistance {
			s.Target, s.Rule = s.Cohesion, RuleCohesion
		}
		if closest <= p.CrowdedDistance {
			s.Target, s.Rule = s.Separation, RuleSeparation
		}
		s.Turn = NormalizeTurn(s.Target - a.Heading)
	}

	limit := math.Max(a.MaxTurnRate*elapsed, 0)
	s.Applied = math.Max(-limit, math.Min(limit, s.Turn))
	s.Clamped = s.Applied != s.Turn
	return s
}

// NormalizeTurn folds a heading difference into (-π, π).
// The value is first reduced modulo π, with a full turn added to negative
// differences, then anything above π is re-wrapped and shifted back down.
// Up to rounding this equals math.Mod(d, math.Pi): small turns keep their
// direction, a turn of more than half a circle is reduced by π.
func NormalizeTurn(d float64) float64 {
	var negative float64
	if d < 0 {
		negative = 1
	}
	d = math.Mod(d, math.Pi) + negative*geometry.TwoPi
	if d > math.Pi {
		d = math.Mod(d+math.Pi, geometry.TwoPi) - math.Pi
	}
	return d
}

// Update moves a one step of elapsed seconds. Neighbors are looked up in
// snapshot, where a lives at index self; a itself is the live copy and is the
// only value written.
func (a *Agent) Update(snapshot []Agent, self int, elapsed float64, p Params) Steering {
	local := FindNeighbors(snapshot, self, p.PerceptionRadius, p.MaxNeighbors)
	s := a.Steer(local, elapsed, p)
	a.advance(s.Applied, elapsed, p)
	return s
}

// advance turns by turn radians, then integrates the position on the torus.
func (a *Agent) advance(turn, elapsed float64, p Params) {
	a.Heading = geometry.NormalizeAngle(a.Heading + turn)
	a.Position = a.Position.Add(a.Velocity().Mul(elapsed)).Wrap(p.WorldWidth, p.WorldHeight)
}
