package tangerine

// SpriteTransform is the per-instance scale, rotation, and pivot.
type SpriteTransform struct {
	// Scale multiplies the sprite's world size. (1, 1) draws the sprite one
	// world unit tall with its pixel aspect ratio preserved.
	Scale Vec2
	// Rotation is counter-clockwise around the pivot.
	Rotation Radians
	// Pivot is the rotation/position origin in normalized quad coordinates:
	// (0, 0) is the bottom-left corner, (0.5, 0.5) the center.
	Pivot Vec2
}

// DefaultTransform returns unit scale, no rotation, and a centered pivot.
func DefaultTransform() SpriteTransform {
	return SpriteTransform{
		Scale: Vec2{1, 1},
		Pivot: Vec2{0.5, 0.5},
	}
}

// SpriteInstance is one draw of a sprite. Instances have no identity beyond
// the frame they are drawn in. Zero values are literal, so start from
// DefaultInstance or NewInstance.
type SpriteInstance struct {
	// Position is the pivot's world position. Z is depth within a layer and
	// does not affect layer ordering.
	Position  Vec3
	Transform SpriteTransform
	// Opacity in [0, 1]. Values outside the range are clamped when the
	// instance is drawn.
	Opacity float64
}

// DefaultInstance returns an opaque, centered, unit-scale instance at the
// origin.
func DefaultInstance() SpriteInstance {
	return SpriteInstance{Transform: DefaultTransform(), Opacity: 1}
}

// NewInstance returns DefaultInstance positioned at (x, y).
func NewInstance(x, y float64) SpriteInstance {
	inst := DefaultInstance()
	inst.Position = Vec3{X: x, Y: y}
	return inst
}

// WithScale returns a copy with a uniform scale.
func (i SpriteInstance) WithScale(s float64) SpriteInstance {
	i.Transform.Scale = Vec2{s, s}
	return i
}

// WithRotation returns a copy rotated by r.
func (i SpriteInstance) WithRotation(r Radians) SpriteInstance {
	i.Transform.Rotation = r
	return i
}

// WithOpacity returns a copy with the given opacity.
func (i SpriteInstance) WithOpacity(a float64) SpriteInstance {
	i.Opacity = a
	return i
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
