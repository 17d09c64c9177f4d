package tangerine

import (
	"fmt"
	"image"
	"time"
)

const (
	// DefaultPadding is the border, in pixels, added on every side of a
	// packed sprite.
	DefaultPadding = 1
	// DefaultMaxAtlasSize is the default per-axis atlas ceiling.
	DefaultMaxAtlasSize = 8192
)

// AtlasOptions configures an AtlasBuilder.
type AtlasOptions struct {
	// ID is the atlas page identifier carried by every sprite and batch.
	ID AtlasID
	// Padding is the edge-replicated border around each sprite. Negative
	// values are treated as zero.
	Padding int
	// MaxSize is the largest allowed width or height. Zero means
	// DefaultMaxAtlasSize.
	MaxSize int
}

// DefaultAtlasOptions returns options with DefaultPadding and
// DefaultMaxAtlasSize.
func DefaultAtlasOptions() AtlasOptions {
	return AtlasOptions{Padding: DefaultPadding, MaxSize: DefaultMaxAtlasSize}
}

// UVRect is a sub-image bounding box in normalized texture coordinates.
// (U0, V0) is the top-left texel corner, (U1, V1) the bottom-right.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// SpriteInfo describes one packed sprite.
type SpriteInfo struct {
	Handle SpriteHandle
	Name   string
	Atlas  AtlasID
	// UV excludes padding.
	UV UVRect
	// Width and Height are the source bitmap size in pixels.
	Width, Height int
	Padding       int
	// Placed is the padded rectangle occupied in the atlas.
	Placed PlacedRect
}

// PixelRect returns the unpadded pixel rectangle of the sprite.
func (s SpriteInfo) PixelRect() PlacedRect {
	return PlacedRect{
		X:      s.Placed.X + s.Padding,
		Y:      s.Placed.Y + s.Padding,
		Width:  s.Width,
		Height: s.Height,
	}
}

// PackStats summarizes a finalize run.
type PackStats struct {
	Canvas    image.Point
	Attempts  int
	UsedArea  int
	TotalArea int
	Duration  time.Duration
}

// Utilization returns UsedArea/TotalArea in [0, 1].
func (s PackStats) Utilization() float64 {
	if s.TotalArea == 0 {
		return 0
	}
	return float64(s.UsedArea) / float64(s.TotalArea)
}

type stagedBitmap struct {
	name   string
	bitmap SpriteBitmap
}

// AtlasBuilder is the staging phase of an atlas. Stage bitmaps, then call
// Finalize exactly once. Not safe for concurrent use.
type AtlasBuilder struct {
	opts   AtlasOptions
	staged []stagedBitmap
	closed bool
}

// NewAtlasBuilder creates an empty builder.
func NewAtlasBuilder(opts AtlasOptions) *AtlasBuilder {
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxAtlasSize
	}
	return &AtlasBuilder{opts: opts}
}

// Options returns the builder's effective options.
func (b *AtlasBuilder) Options() AtlasOptions { return b.opts }

// Len returns the number of staged bitmaps.
func (b *AtlasBuilder) Len() int { return len(b.staged) }

// Stage adds a bitmap and returns its handle. The bitmap's pixel slice is
// retained until Finalize; callers must not modify it in the meantime.
func (b *AtlasBuilder) Stage(bm SpriteBitmap) (SpriteHandle, error) {
	return b.StageNamed("", bm)
}

// StageNamed is Stage with a manifest name. An empty name becomes
// "sprite_<handle>". Other names are kept verbatim; only file names derived
// from them are sanitized.
func (b *AtlasBuilder) StageNamed(name string, bm SpriteBitmap) (SpriteHandle, error) {
	if b.closed {
		return 0, ErrAtlasFrozen
	}
	if err := bm.validate(); err != nil {
		return 0, err
	}
	h := SpriteHandle(len(b.staged))
	if name == "" {
		name = fmt.Sprintf("sprite_%d", h)
	}
	b.staged = append(b.staged, stagedBitmap{name: name, bitmap: bm})
	return h, nil
}

// Finalize packs every staged bitmap into a new Atlas and closes the
// builder, whether or not packing succeeds.
func (b *AtlasBuilder) Finalize() (*Atlas, error) {
	if b.closed {
		return nil, ErrAlreadyFinalized
	}
	b.closed = true
	staged := b.staged
	b.staged = nil

	t0 := time.Now()
	pad := b.opts.Padding
	items := make([]packItem, len(staged))
	for i, s := range staged {
		items[i] = packItem{
			handle: SpriteHandle(i),
			w:      s.bitmap.Width + 2*pad,
			h:      s.bitmap.Height + 2*pad,
		}
	}

	p := packer{maxSize: b.opts.MaxSize}
	placed, canvas, err := p.pack(items)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rectangle{Max: canvas})
	sprites := make([]SpriteInfo, len(staged))
	used := 0
	for i, s := range staged {
		r := placed[i]
		inner := r.Inset(pad)
		blit(img, inner.Min, s.bitmap)
		bleedEdges(img, inner, pad)
		used += r.Dx() * r.Dy()

		sprites[i] = SpriteInfo{
			Handle:  SpriteHandle(i),
			Name:    s.name,
			Atlas:   b.opts.ID,
			UV:      uvFor(inner, canvas),
			Width:   s.bitmap.Width,
			Height:  s.bitmap.Height,
			Padding: pad,
			Placed:  placedFromRect(r),
		}
	}

	a := &Atlas{
		id:      b.opts.ID,
		img:     img,
		sprites: sprites,
		names:   make(map[string]SpriteHandle, len(sprites)),
		stats: PackStats{
			Canvas:    canvas,
			Attempts:  p.attempts,
			UsedArea:  used,
			TotalArea: canvas.X * canvas.Y,
			Duration:  time.Since(t0),
		},
	}
	for i := range sprites {
		sprites[i].Name = a.uniqueName(sprites[i].Name, i)
		a.names[sprites[i].Name] = sprites[i].Handle
	}
	logger().Debug("atlas finalized",
		"id", a.id, "sprites", len(sprites), "size", canvas,
		"attempts", p.attempts, "utilization", a.stats.Utilization())
	return a, nil
}

// blit copies bm's rows verbatim into dst at at. Straight-alpha bytes are not
// routed through a compositing path, so they survive unchanged.
func blit(dst *image.NRGBA, at image.Point, bm SpriteBitmap) {
	row := 4 * bm.Width
	for y := 0; y < bm.Height; y++ {
		off := dst.PixOffset(at.X, at.Y+y)
		copy(dst.Pix[off:off+row], bm.Pix[y*row:(y+1)*row])
	}
}

func uvFor(r image.Rectangle, canvas image.Point) UVRect {
	w, h := float32(canvas.X), float32(canvas.Y)
	return UVRect{
		U0: float32(r.Min.X) / w,
		V0: float32(r.Min.Y) / h,
		U1: float32(r.Max.X) / w,
		V1: float32(r.Max.Y) / h,
	}
}

// bleedEdges replicates the outermost pixels of inner into a pad-wide
// border, corners included. The padded rectangle must lie inside dst.
func bleedEdges(dst *image.NRGBA, inner image.Rectangle, pad int) {
	if pad <= 0 || inner.Empty() {
		return
	}
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		left := dst.PixOffset(inner.Min.X, y)
		right := dst.PixOffset(inner.Max.X-1, y)
		for k := 1; k <= pad; k++ {
			copy(dst.Pix[left-4*k:left-4*k+4], dst.Pix[left:left+4])
			copy(dst.Pix[right+4*k:right+4*k+4], dst.Pix[right:right+4])
		}
	}
	rowLen := 4 * (inner.Dx() + 2*pad)
	top := dst.PixOffset(inner.Min.X-pad, inner.Min.Y)
	bottom := dst.PixOffset(inner.Min.X-pad, inner.Max.Y-1)
	for k := 1; k <= pad; k++ {
		up := top - k*dst.Stride
		down := bottom + k*dst.Stride
		copy(dst.Pix[up:up+rowLen], dst.Pix[top:top+rowLen])
		copy(dst.Pix[down:down+rowLen], dst.Pix[bottom:bottom+rowLen])
	}
}

// uniqueName returns name, or name_<handle> (then name_<handle>_2, ...) when
// an earlier sprite already holds it, so every sprite keeps a manifest entry.
func (a *Atlas) uniqueName(name string, handle int) string {
	if _, taken := a.names[name]; !taken {
		return name
	}
	candidate := fmt.Sprintf("%s_%d", name, handle)
	for n := 2; ; n++ {
		if _, taken := a.names[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d_%d", name, handle, n)
	}
}

// Atlas is a frozen, packed atlas page. All methods are read-only and safe
// for concurrent use.
type Atlas struct {
	id      AtlasID
	img     *image.NRGBA
	sprites []SpriteInfo
	names   map[string]SpriteHandle
	stats   PackStats
}

// ID returns the atlas page identifier.
func (a *Atlas) ID() AtlasID { return a.id }

// Width returns the atlas width in pixels (a power of two).
func (a *Atlas) Width() int { return a.img.Rect.Dx() }

// Height returns the atlas height in pixels (a power of two).
func (a *Atlas) Height() int { return a.img.Rect.Dy() }

// Pix returns the composed straight-alpha RGBA8 buffer. The returned slice
// MUST NOT be mutated.
func (a *Atlas) Pix() []byte { return a.img.Pix }

// Image returns the composed atlas as an image sharing the atlas pixels.
// The returned image MUST NOT be mutated.
func (a *Atlas) Image() *image.NRGBA { return a.img }

// Len returns the number of sprites in the atlas.
func (a *Atlas) Len() int { return len(a.sprites) }

// Sprite returns the info for a local handle.
func (a *Atlas) Sprite(h SpriteHandle) (SpriteInfo, bool) {
	if int(h) >= len(a.sprites) {
		return SpriteInfo{}, false
	}
	return a.sprites[h], true
}

// SpriteByName looks a sprite up by its staging name.
func (a *Atlas) SpriteByName(name string) (SpriteInfo, bool) {
	h, ok := a.names[name]
	if !ok {
		return SpriteInfo{}, false
	}
	return a.sprites[h], true
}

// Sprites returns every sprite in handle order. The returned slice MUST NOT
// be mutated.
func (a *Atlas) Sprites() []SpriteInfo { return a.sprites }

// Stats returns packing statistics.
func (a *Atlas) Stats() PackStats { return a.stats }
