package tangerine

import (
	"fmt"
	"time"
)

// Renderer ties the engine together: an atlas builder for staging, the
// frozen sprite registry, layers, the camera, and the per-frame builder.
// Backends consume its atlases and the batches returned by EndFrame.
type Renderer struct {
	opts    AtlasOptions
	builder *AtlasBuilder
	sprites *SpriteRegistry
	layers  *LayerRegistry
	camera  *Camera
	frame   *FrameBuilder

	nextAtlas AtlasID
	frameNum  uint64
	debug     bool
}

// NewRenderer creates a renderer with default atlas options whose camera
// renders into viewport.
func NewRenderer(viewport Rect) *Renderer {
	return NewRendererWithOptions(viewport, DefaultAtlasOptions())
}

// NewRendererWithOptions creates a renderer whose atlases use opts. The ID
// in opts is ignored; atlases are numbered from 0 in finalize order.
func NewRendererWithOptions(viewport Rect, opts AtlasOptions) *Renderer {
	sprites := NewSpriteRegistry()
	layers := NewLayerRegistry()
	r := &Renderer{
		opts:    opts,
		sprites: sprites,
		layers:  layers,
		camera:  NewCamera(viewport),
		frame:   NewFrameBuilder(sprites, layers),
	}
	r.builder = r.newBuilder()
	return r
}

func (r *Renderer) newBuilder() *AtlasBuilder {
	opts := r.opts
	opts.ID = r.nextAtlas
	return NewAtlasBuilder(opts)
}

// SetAtlasOptions replaces the options used for the current and later
// atlases. It fails with ErrAtlasFrozen once sprites are staged.
func (r *Renderer) SetAtlasOptions(opts AtlasOptions) error {
	if r.builder.Len() > 0 {
		return fmt.Errorf("tangerine: set atlas options with %d staged sprites: %w", r.builder.Len(), ErrAtlasFrozen)
	}
	r.opts = opts
	r.builder = r.newBuilder()
	return nil
}

// Atlas returns the builder currently staging sprites. Handles it returns are
// local to the atlas being built; prefer Stage, which returns global handles.
func (r *Renderer) Atlas() *AtlasBuilder { return r.builder }

// Stage stages a bitmap into the current atlas and returns its global handle,
// valid for Draw once FinalizeAtlas succeeds.
func (r *Renderer) Stage(b SpriteBitmap) (SpriteHandle, error) {
	return r.StageNamed("", b)
}

// StageNamed is Stage with a manifest name.
func (r *Renderer) StageNamed(name string, b SpriteBitmap) (SpriteHandle, error) {
	h, err := r.builder.StageNamed(name, b)
	if err != nil {
		return 0, err
	}
	return SpriteHandle(r.sprites.Len()) + h, nil
}

// FinalizeAtlas packs the staged sprites, registers the resulting atlas, and
// opens a fresh builder for a further atlas. On overflow nothing is
// registered and the staged sprites are discarded.
func (r *Renderer) FinalizeAtlas() (*Atlas, error) {
	b := r.builder
	r.nextAtlas++
	r.builder = r.newBuilder()

	a, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	if _, err := r.sprites.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Sprites returns the frozen sprite registry.
func (r *Renderer) Sprites() *SpriteRegistry { return r.sprites }

// Layers returns the layer registry.
func (r *Renderer) Layers() *LayerRegistry { return r.layers }

// RegisterLayer adds a layer, failing with ErrDuplicateLayer if it exists.
func (r *Renderer) RegisterLayer(name string, zOrder int) error {
	return r.layers.Register(name, zOrder)
}

// SetLayer registers a layer or reassigns its z-order.
func (r *Renderer) SetLayer(name string, zOrder int) {
	r.layers.SetLayer(name, zOrder)
}

// Camera returns the camera. Mutate it through MutateCamera or
// Camera.Mutate.
func (r *Renderer) Camera() *Camera { return r.camera }

// MutateCamera gives fn exclusive access to the camera state.
func (r *Renderer) MutateCamera(fn func(s *CameraState)) error {
	return r.camera.Mutate(fn)
}

// WindowToWorld converts a window (screen) position to world coordinates.
func (r *Renderer) WindowToWorld(p Vec2) Vec2 {
	return r.camera.ScreenToWorld(p)
}

// Frame returns the frame builder for the current frame.
func (r *Renderer) Frame() *FrameBuilder { return r.frame }

// EndFrame finishes the current frame and returns its batches.
func (r *Renderer) EndFrame() []Batch {
	if !r.debug {
		r.frameNum++
		return r.frame.Finish()
	}

	stats := frameStats{dropped: r.frame.Dropped()}
	t0 := time.Now()
	batches := r.frame.Finish()
	stats.finishTime = time.Since(t0)
	stats.draws = countInstances(batches)
	stats.batches = len(batches)
	stats.layers = countLayers(batches)
	stats.debugLog(r.frameNum)
	r.frameNum++
	return batches
}

// FrameCount returns the number of frames ended so far.
func (r *Renderer) FrameCount() uint64 { return r.frameNum }

// SetDebugMode enables per-frame stats logging at debug level.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// SetDropInvalidDraws selects the per-call error policy: when enabled,
// invalid draws are logged and discarded so the rest of the frame proceeds.
func (r *Renderer) SetDropInvalidDraws(enabled bool) {
	r.frame.DropInvalid = enabled
}

// String implements fmt.Stringer for diagnostics.
func (r *Renderer) String() string {
	return fmt.Sprintf("Renderer{atlases: %d, sprites: %d, layers: %d, frame: %d}",
		len(r.sprites.Atlases()), r.sprites.Len(), r.layers.Len(), r.frameNum)
}
