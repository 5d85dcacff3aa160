package geometry

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned rectangle in degrees: X spans longitude,
// Y spans latitude. It serves both as the simulation's bounce boundary
// and as the viewport rectangle supplied by the camera.
type Bounds struct {
	MinLng float64 `json:"minLng"`
	MinLat float64 `json:"minLat"`
	MaxLng float64 `json:"maxLng"`
	MaxLat float64 `json:"maxLat"`
}

// NewBounds creates a Bounds and validates that it is non-degenerate
// (strictly positive extent on both axes).
func NewBounds(minLng, minLat, maxLng, maxLat float64) (Bounds, error) {
	b := Bounds{MinLng: minLng, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat}
	if !b.Valid() {
		return Bounds{}, fmt.Errorf("invalid bounds %s: min must be strictly below max on both axes", b)
	}
	return b, nil
}

// String implements the fmt.Stringer interface.
func (b Bounds) String() string {
	return fmt.Sprintf("[%.3f,%.3f → %.3f,%.3f]", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
}

// Valid reports whether the rectangle has positive extent on both axes.
func (b Bounds) Valid() bool {
	return b.MaxLng > b.MinLng && b.MaxLat > b.MinLat
}

// Width returns the longitude extent in degrees.
func (b Bounds) Width() float64 {
	return b.MaxLng - b.MinLng
}

// Height returns the latitude extent in degrees.
func (b Bounds) Height() float64 {
	return b.MaxLat - b.MinLat
}

// Expand grows the rectangle symmetrically by margin degrees on all four
// edges. A negative margin shrinks it; callers are expected to keep the
// result valid.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinLng: b.MinLng - margin,
		MinLat: b.MinLat - margin,
		MaxLng: b.MaxLng + margin,
		MaxLat: b.MaxLat + margin,
	}
}

// Contains reports whether p lies inside the rectangle. Edges are
// inclusive, so a point exactly on the boundary counts as inside.
func (b Bounds) Contains(p Vector2D) bool {
	return p.X >= b.MinLng && p.X <= b.MaxLng &&
		p.Y >= b.MinLat && p.Y <= b.MaxLat
}

// ContainsXY is Contains without building a Vector2D, for hot loops that
// read coordinates straight out of flat arrays.
func (b Bounds) ContainsXY(x, y float64) bool {
	return x >= b.MinLng && x <= b.MaxLng && y >= b.MinLat && y <= b.MaxLat
}

// Clamp returns p moved to the nearest point inside the rectangle.
func (b Bounds) Clamp(p Vector2D) Vector2D {
	return Vector2D{
		X: math.Min(math.Max(p.X, b.MinLng), b.MaxLng),
		Y: math.Min(math.Max(p.Y, b.MinLat), b.MaxLat),
	}
}

// ApproxEq reports whether every edge of the two rectangles is within eps
// degrees of its counterpart. Used to decide whether a viewport move is
// big enough to be worth reacting to.
func (b Bounds) ApproxEq(other Bounds, eps float64) bool {
	return math.Abs(b.MinLng-other.MinLng) <= eps &&
		math.Abs(b.MinLat-other.MinLat) <= eps &&
		math.Abs(b.MaxLng-other.MaxLng) <= eps &&
		math.Abs(b.MaxLat-other.MaxLat) <= eps
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Vector2D {
	return Vector2D{X: (b.MinLng + b.MaxLng) / 2, Y: (b.MinLat + b.MaxLat) / 2}
}
