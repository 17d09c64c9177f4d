package tangerine

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraState is the mutable part of a Camera, handed to Mutate callbacks.
type CameraState struct {
	// Position is the world point at the center of the view.
	Position Vec2
	// Size is the world extent covered vertically. The horizontal extent is
	// Size*AspectRatio.
	Size float64
	// AspectRatio is the viewport width divided by its height.
	AspectRatio float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect
}

func (s CameraState) validate() error {
	if !(s.Size > 0) || !(s.AspectRatio > 0) ||
		!(s.Viewport.Width > 0) || !(s.Viewport.Height > 0) ||
		math.IsInf(s.Size, 0) || math.IsInf(s.AspectRatio, 0) {
		return fmt.Errorf("%w: size=%v aspect=%v viewport=%vx%v",
			ErrInvalidCamera, s.Size, s.AspectRatio, s.Viewport.Width, s.Viewport.Height)
	}
	if !finite(s.Position.X) || !finite(s.Position.Y) {
		return fmt.Errorf("%w: position=%v", ErrInvalidCamera, s.Position)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// cameraTween holds the active scroll and zoom tweens.
type cameraTween struct {
	tweenX, tweenY, tweenSize *gween.Tween
	doneX, doneY, doneSize    bool
}

func (t *cameraTween) done() bool {
	return (t.tweenX == nil || t.doneX) &&
		(t.tweenY == nil || t.doneY) &&
		(t.tweenSize == nil || t.doneSize)
}

// Camera converts between screen and world coordinates. World +Y is up,
// screen +Y is down. State changes go through Mutate so derived matrices are
// never observed half-updated.
type Camera struct {
	state CameraState

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	viewProj      [6]float64

	tween *cameraTween
}

// DefaultCameraSize is the vertical world extent of a new camera.
const DefaultCameraSize = 2.0

// NewCamera creates a camera centered on the origin covering
// DefaultCameraSize world units vertically. A viewport without positive
// width and height is replaced by the unit square.
func NewCamera(viewport Rect) *Camera {
	if !(viewport.Width > 0) || !(viewport.Height > 0) {
		viewport = Rect{Width: 1, Height: 1}
	}
	c := &Camera{state: CameraState{
		Size:        DefaultCameraSize,
		AspectRatio: viewport.Width / viewport.Height,
		Viewport:    viewport,
	}}
	c.computeMatrices()
	return c
}

// State returns a copy of the camera state.
func (c *Camera) State() CameraState { return c.state }

// Position returns the world point at the center of the view.
func (c *Camera) Position() Vec2 { return c.state.Position }

// Size returns the vertical world extent.
func (c *Camera) Size() float64 { return c.state.Size }

// AspectRatio returns the width/height ratio of the world view.
func (c *Camera) AspectRatio() float64 { return c.state.AspectRatio }

// Viewport returns the screen-space viewport.
func (c *Camera) Viewport() Rect { return c.state.Viewport }

// Mutate runs fn on a copy of the camera state and commits it once fn
// returns. An invalid result is rejected with ErrInvalidCamera and the
// camera is left unchanged.
func (c *Camera) Mutate(fn func(s *CameraState)) error {
	next := c.state
	fn(&next)
	if err := next.validate(); err != nil {
		return err
	}
	c.state = next
	c.computeMatrices()
	return nil
}

// SetViewport changes the viewport and derives the aspect ratio from it.
func (c *Camera) SetViewport(viewport Rect) error {
	return c.Mutate(func(s *CameraState) {
		s.Viewport = viewport
		if viewport.Height != 0 {
			s.AspectRatio = viewport.Width / viewport.Height
		}
	})
}

// computeMatrices recomputes the cached transforms.
//
//	screen.x = vx + vw/2 + (world.x - px) * vw/(size*aspect)
//	screen.y = vy + vh/2 - (world.y - py) * vh/size
func (c *Camera) computeMatrices() {
	s := c.state
	vp := s.Viewport
	kx := vp.Width / (s.Size * s.AspectRatio)
	ky := vp.Height / s.Size
	cx := vp.X + vp.Width/2
	cy := vp.Y + vp.Height/2

	c.viewMatrix = [6]float64{kx, 0, 0, -ky, cx - kx*s.Position.X, cy + ky*s.Position.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)

	nx := 2 / (s.Size * s.AspectRatio)
	ny := 2 / s.Size
	c.viewProj = [6]float64{nx, 0, 0, ny, -nx * s.Position.X, -ny * s.Position.Y}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	x, y := transformPoint(c.viewMatrix, p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	x, y := transformPoint(c.invViewMatrix, p.X, p.Y)
	return Vec2{x, y}
}

// ViewMatrix returns the world → screen affine matrix.
func (c *Camera) ViewMatrix() [6]float64 { return c.viewMatrix }

// ViewProjection returns the world → clip-space ([-1, 1]², Y up) affine
// matrix for GPU backends.
func (c *Camera) ViewProjection() [6]float64 { return c.viewProj }

// VisibleBounds returns the world rectangle covered by the viewport. X and Y
// are the minimum corner.
func (c *Camera) VisibleBounds() Rect {
	s := c.state
	w := s.Size * s.AspectRatio
	return Rect{
		X:      s.Position.X - w/2,
		Y:      s.Position.Y - s.Size/2,
		Width:  w,
		Height: s.Size,
	}
}

// ScrollTo animates the camera to the given world position over duration
// seconds. Advance the animation with Update.
func (c *Camera) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	t := c.ensureTween()
	t.tweenX = gween.New(float32(c.state.Position.X), float32(target.X), duration, easeFn)
	t.tweenY = gween.New(float32(c.state.Position.Y), float32(target.Y), duration, easeFn)
	t.doneX, t.doneY = false, false
}

// ZoomTo animates Size to the given value over duration seconds.
func (c *Camera) ZoomTo(size float64, duration float32, easeFn ease.TweenFunc) {
	t := c.ensureTween()
	t.tweenSize = gween.New(float32(c.state.Size), float32(size), duration, easeFn)
	t.doneSize = false
}

func (c *Camera) ensureTween() *cameraTween {
	if c.tween == nil {
		c.tween = &cameraTween{}
	}
	return c.tween
}

// Animating reports whether a ScrollTo or ZoomTo is in progress.
func (c *Camera) Animating() bool { return c.tween != nil }

// Update advances active animations by dt seconds. Call once per tick,
// before the frame is built.
func (c *Camera) Update(dt float32) {
	t := c.tween
	if t == nil {
		return
	}
	err := c.Mutate(func(s *CameraState) {
		if t.tweenX != nil && !t.doneX {
			v, done := t.tweenX.Update(dt)
			s.Position.X = float64(v)
			t.doneX = done
		}
		if t.tweenY != nil && !t.doneY {
			v, done := t.tweenY.Update(dt)
			s.Position.Y = float64(v)
			t.doneY = done
		}
		if t.tweenSize != nil && !t.doneSize {
			v, done := t.tweenSize.Update(dt)
			s.Size = float64(v)
			t.doneSize = done
		}
	})
	if err != nil {
		logger().Warn("camera animation stopped", "error", err)
		c.tween = nil
		return
	}
	if t.done() {
		c.tween = nil
	}
}

// ScreenModel returns the unit-quad → screen matrix for d, for backends that
// rasterize in screen pixels.
func (c *Camera) ScreenModel(d *DrawInstance) [6]float64 {
	return multiplyAffine(c.viewMatrix, d.Model())
}

// Culls reports whether d lies entirely outside the visible world bounds.
// Frames may skip culled instances before calling Draw.
func (c *Camera) Culls(d *DrawInstance) bool {
	return !quadAABB(d.Model()).Intersects(c.VisibleBounds())
}

// quadAABB computes the world axis-aligned bounding box of the unit quad
// under m.
func quadAABB(m [6]float64) Rect {
	x0, y0 := transformPoint(m, 0, 0)
	x1, y1 := transformPoint(m, 1, 0)
	x2, y2 := transformPoint(m, 0, 1)
	x3, y3 := transformPoint(m, 1, 1)
	minX, maxX := min(x0, x1, x2, x3), max(x0, x1, x2, x3)
	minY, maxY := min(y0, y1, y2, y3), max(y0, y1, y2, y3)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
