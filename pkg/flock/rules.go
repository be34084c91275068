package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"gonum.org/v1/gonum/stat"
)

// Alignment returns the mean heading of the neighbors.
// In arithmetic mode headings are averaged as plain numbers, so 0.1 and 6.2
// give about 3.15 rather than a heading near 0.
func (a Agent) Alignment(local LocalFlock, mode AlignmentMode) float64 {
	if local.Len() == 0 {
		return a.Heading
	}
	headings := make([]float64, local.Len())
	for i, n := range local.Neighbors {
		headings[i] = n.Heading
	}
	if mode == AlignmentCircular {
		return geometry.NormalizeAngle(stat.CircularMean(headings, nil))
	}
	return stat.Mean(headings, nil)
}

// Cohesion returns the heading toward the centroid of the neighbors.
func (a Agent) Cohesion(local LocalFlock) float64 {
	if local.Len() == 0 {
		return a.Heading
	}
	var sum geometry.Vector2D
	for _, n := range local.Neighbors {
		sum = sum.Add(n.Position)
	}
	centroid := sum.Mul(1 / float64(local.Len()))
	return a.Position.HeadingTo(centroid)
}

// Separation returns the heading directly away from the nearest neighbor when it
// is within reach, otherwise the current heading.
func (a Agent) Separation(local LocalFlock, reach float64) float64 {
	i, d, found := local.Nearest()
	if !found || d > reach {
		return a.Heading
	}
	toward := a.Position.HeadingTo(local.Neighbors[i].Position)
	return math.Mod(toward+math.Pi, geometry.TwoPi)
}
