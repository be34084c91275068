package flock

import (
	"errors"
	"fmt"
)

// AlignmentMode selects how neighbor headings are averaged.
type AlignmentMode string

const (
	// AlignmentArithmetic averages raw headings. Headings on both sides of 0/2π
	// average toward π, which is the historical behavior of the flock.
	AlignmentArithmetic AlignmentMode = "arithmetic"
	// AlignmentCircular averages headings on the unit circle.
	AlignmentCircular AlignmentMode = "circular"
)

const (
	DefaultPerceptionRadius   = 50.0
	DefaultMaxNeighbors       = 128
	DefaultSeparationDistance = 5.0
	DefaultCrowdedDistance    = 10.0
	DefaultSparseDistance     = 30.0
)

var (
	ErrInvalidWorld      = errors.New("world width and height must be positive")
	ErrInvalidRadius     = errors.New("perception radius must be positive")
	ErrInvalidLimit      = errors.New("max neighbors must be positive")
	ErrInvalidThresholds = errors.New("distance thresholds must not be negative")
	ErrInvalidAlignment  = errors.New("unknown alignment mode")
)

// Params are the tunables shared by every agent of a flock.
type Params struct {
	WorldWidth  float64
	WorldHeight float64

	PerceptionRadius float64
	MaxNeighbors     int

	// SeparationDistance is the range at which the separation rule starts to flee.
	SeparationDistance float64
	// CrowdedDistance selects the separation heading when the nearest neighbor is at or below it.
	CrowdedDistance float64
	// SparseDistance selects the cohesion heading when the nearest neighbor is at or beyond it.
	SparseDistance float64

	Alignment AlignmentMode
}

// DefaultParams returns the classic tuning for a world of the given size.
func DefaultParams(width, height float64) Params {
	return Params{
		WorldWidth:         width,
		WorldHeight:        height,
		PerceptionRadius:   DefaultPerceptionRadius,
		MaxNeighbors:       DefaultMaxNeighbors,
		SeparationDistance: DefaultSeparationDistance,
		CrowdedDistance:    DefaultCrowdedDistance,
		SparseDistance:     DefaultSparseDistance,
		Alignment:          AlignmentArithmetic,
	}
}

// Validate reports every problem found in p.
func (p Params) Validate() error {
	var errs []error
	if p.WorldWidth <= 0 || p.WorldHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %vx%v", ErrInvalidWorld, p.WorldWidth, p.WorldHeight))
	}
	if p.PerceptionRadius <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidRadius, p.PerceptionRadius))
	}
	if p.MaxNeighbors <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidLimit, p.MaxNeighbors))
	}
	if p.SeparationDistance < 0 || p.CrowdedDistance < 0 || p.SparseDistance < 0 {
		errs = append(errs, ErrInvalidThresholds)
	}
	switch p.Alignment {
	case AlignmentArithmetic, AlignmentCircular, "":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAlignment, p.Alignment))
	}
	return errors.Join(errs...)
}
