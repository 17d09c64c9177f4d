package tangerine

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Vec3 is a world position. Z is advisory depth within a layer; it never
// affects layer ordering.
type Vec3 struct {
	X, Y, Z float64
}

// XY drops the depth component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Rect is an axis-aligned rectangle. In screen space the origin is the
// top-left with Y increasing downward; in world space (X, Y) is the minimum
// corner with Y increasing upward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Radians is the only rotation unit accepted by the engine. Counter-clockwise
// in world space (Y up).
type Radians float64

// Degrees converts an angle in degrees to Radians.
func Degrees(d float64) Radians {
	return Radians(d * math.Pi / 180)
}

// Degrees returns the angle in degrees.
func (r Radians) Degrees() float64 {
	return float64(r) * 180 / math.Pi
}

// SpriteHandle is an opaque, stable sprite identifier. Handles are arena
// indices assigned in staging order starting at 0.
type SpriteHandle uint32

// AtlasID identifies an atlas page. Batches never mix pages.
type AtlasID uint16
