// Package telemetry summarizes the state of a flock and writes the summaries as CSV.
package telemetry

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"gonum.org/v1/gonum/stat"
)

// Metrics is one telemetry sample of a flock.
type Metrics struct {
	Tick    uint64  `csv:"tick" json:"tick"`
	SimTime float64 `csv:"sim_time" json:"simTime"`
	Agents  int     `csv:"agents" json:"agents"`

	// Polarization is the length of the mean unit heading: 1 when every agent
	// faces the same way, near 0 for random headings.
	Polarization float64 `csv:"polarization" json:"polarization"`
	MeanHeading  float64 `csv:"mean_heading" json:"meanHeading"`

	// Nearest neighbor distance over agents that have at least one neighbor.
	NearestMean   float64 `csv:"nearest_mean" json:"nearestMean"`
	NearestStdDev float64 `csv:"nearest_stddev" json:"nearestStdDev"`
	Isolated      int     `csv:"isolated" json:"isolated"`

	// How many agents picked each rule during the last step.
	Alignment  int `csv:"alignment" json:"alignment"`
	Cohesion   int `csv:"cohesion" json:"cohesion"`
	Separation int `csv:"separation" json:"separation"`
	Clamped    int `csv:"clamped" json:"clamped"`
}

// Compute samples agents after a step. steering is the result of that step and
// may be nil, in which case neighbor and rule figures stay at zero.
func Compute(agents []flock.Agent, steering []flock.Steering) Metrics {
	m := Metrics{Agents: len(agents)}
	if len(agents) == 0 {
		return m
	}

	headings := make([]float64, len(agents))
	sins := make([]float64, len(agents))
	coss := make([]float64, len(agents))
	for i, a := range agents {
		headings[i] = a.Heading
		sins[i], coss[i] = math.Sincos(a.Heading)
	}
	m.Polarization = math.Hypot(stat.Mean(sins, nil), stat.Mean(coss, nil))
	m.MeanHeading = geometry.NormalizeAngle(stat.CircularMean(headings, nil))

	var nearest []float64
	for _, s := range steering {
		if s.Neighbors == 0 {
			m.Isolated++
			continue
		}
		nearest = append(nearest, s.Closest)
		switch s.Rule {
		case flock.RuleAlignment:
			m.Alignment++
		case flock.RuleCohesion:
			m.Cohesion++
		case flock.RuleSeparation:
			m.Separation++
		}
		if s.Clamped {
			m.Clamped++
		}
	}
	switch {
	case len(nearest) > 1:
		m.NearestMean, m.NearestStdDev = stat.MeanStdDev(nearest, nil)
	case len(nearest) == 1:
		m.NearestMean = nearest[0]
	}
	return m
}
