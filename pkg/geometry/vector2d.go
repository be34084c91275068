package geometry

import (
	"fmt"
	"math"
)

const (
	// Epsilon is the tolerance used by Eq for float64 comparisons.
	Epsilon = 1e-9
	// TwoPi is a full turn in radians.
	TwoPi = 2 * math.Pi
)

// Vector2D is a point or displacement in world space.
// The world is screen oriented: X grows to the right and Y grows downward.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// String implements fmt.Stringer.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Scale multiplies each axis by the matching axis of s.
func (v Vector2D) Scale(s Vector2D) Vector2D {
	return Vector2D{v.X * s.X, v.Y * s.Y}
}

// LenSqr is the squared magnitude, use it for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the magnitude of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// DistanceTo calculates the Euclidean distance to another point.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// Rotate rotates the vector by angle (in radians) around the origin.
// With Y pointing down a positive angle turns clockwise on screen.
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// HeadingTo returns the heading that points from v toward target.
// Heading 0 faces up the screen (negative Y) and a positive heading turns toward +X.
func (v Vector2D) HeadingTo(target Vector2D) float64 {
	d := v.Sub(target)
	return math.Atan2(-d.X, d.Y)
}

// Wrap folds the point back into the [0,width) x [0,height) torus.
func (v Vector2D) Wrap(width, height float64) Vector2D {
	return Vector2D{X: WrapScalar(v.X, width), Y: WrapScalar(v.Y, height)}
}

// Eq checks if two vectors are equal within Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}

// WrapScalar maps x into [0, size) with a floating point modulo.
// A non-positive size leaves x untouched.
func WrapScalar(x, size float64) float64 {
	if size <= 0 {
		return x
	}
	x = math.Mod(x, size)
	if x < 0 {
		x += size
	}
	// x+size can round up to size for tiny negative x
	if x >= size {
		x = 0
	}
	return x
}

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	return WrapScalar(a, TwoPi)
}
