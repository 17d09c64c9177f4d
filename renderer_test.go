package tangerine

import (
	"errors"
	"strings"
	"testing"
)

// newTestRenderer returns a renderer with one finalized atlas holding a 16x16
// (handle 0) and an 8x8 (handle 1) sprite, and layers bg (-1) and fg (1).
func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer(Rect{Width: 800, Height: 600})
	if _, err := r.Stage(SolidBitmap(16, 16, red)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.StageNamed("small", SolidBitmap(8, 8, green)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.FinalizeAtlas(); err != nil {
		t.Fatal(err)
	}
	r.SetLayer("bg", -1)
	r.SetLayer("fg", 1)
	return r
}

func TestRendererStageFinalize(t *testing.T) {
	r := newTestRenderer(t)
	a := r.Sprites().Atlas(0)
	if a == nil || a.Width() != 32 || a.Height() != 32 {
		t.Fatalf("atlas 0 = %v", a)
	}
	if r.Sprites().Len() != 2 {
		t.Errorf("sprites = %d, want 2", r.Sprites().Len())
	}
}

func TestRendererSecondAtlasGlobalHandles(t *testing.T) {
	r := newTestRenderer(t)
	h, err := r.Stage(SolidBitmap(4, 4, blue))
	if err != nil {
		t.Fatal(err)
	}
	if h != 2 {
		t.Errorf("global handle = %d, want 2", h)
	}
	a, err := r.FinalizeAtlas()
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() != 1 {
		t.Errorf("atlas ID = %d, want 1", a.ID())
	}
	info, ok := r.Sprites().Lookup(h)
	if !ok || info.Atlas != 1 || info.Width != 4 {
		t.Errorf("Lookup(%d) = %+v, %v", h, info, ok)
	}

	_ = r.Frame().Draw(0, "fg", DefaultInstance())
	_ = r.Frame().Draw(h, "fg", DefaultInstance())
	batches := r.EndFrame()
	if len(batches) != 2 || batches[0].Atlas != 0 || batches[1].Atlas != 1 {
		t.Errorf("batches = %+v", batches)
	}
}

func TestRendererFinalizeOverflowDiscards(t *testing.T) {
	r := NewRendererWithOptions(Rect{Width: 10, Height: 10}, AtlasOptions{MaxSize: 16})
	_, _ = r.Stage(SolidBitmap(32, 32, red))
	if _, err := r.FinalizeAtlas(); !errors.Is(err, ErrPackingOverflow) {
		t.Fatalf("err = %v, want ErrPackingOverflow", err)
	}
	if r.Sprites().Len() != 0 {
		t.Errorf("sprites registered after overflow: %d", r.Sprites().Len())
	}
	h, err := r.Stage(SolidBitmap(4, 4, red))
	if err != nil || h != 0 {
		t.Errorf("Stage after overflow = %d, %v", h, err)
	}
}

func TestRendererSetAtlasOptions(t *testing.T) {
	r := NewRenderer(Rect{Width: 10, Height: 10})
	if err := r.SetAtlasOptions(AtlasOptions{Padding: 3, MaxSize: 64}); err != nil {
		t.Fatal(err)
	}
	if r.Atlas().Options().Padding != 3 {
		t.Errorf("Padding = %d, want 3", r.Atlas().Options().Padding)
	}
	_, _ = r.Stage(SolidBitmap(1, 1, red))
	if err := r.SetAtlasOptions(DefaultAtlasOptions()); !errors.Is(err, ErrAtlasFrozen) {
		t.Errorf("err = %v, want ErrAtlasFrozen", err)
	}
}

func TestRendererLayersAndCamera(t *testing.T) {
	r := newTestRenderer(t)
	if err := r.RegisterLayer("fg", 3); !errors.Is(err, ErrDuplicateLayer) {
		t.Errorf("err = %v, want ErrDuplicateLayer", err)
	}
	if err := r.MutateCamera(func(s *CameraState) { s.Size = 8 }); err != nil {
		t.Fatal(err)
	}
	w := r.WindowToWorld(Vec2{400, 0})
	if !approxEqual(w.X, 0, epsilon) || !approxEqual(w.Y, 4, epsilon) {
		t.Errorf("WindowToWorld(400,0) = %v, want (0,4)", w)
	}
}

func TestRendererEndFrameCounts(t *testing.T) {
	r := newTestRenderer(t)
	_ = r.Frame().Draw(1, "bg", DefaultInstance())
	r.EndFrame()
	r.EndFrame()
	if r.FrameCount() != 2 {
		t.Errorf("FrameCount = %d, want 2", r.FrameCount())
	}
	if !strings.Contains(r.String(), "sprites: 2") {
		t.Errorf("String = %q", r.String())
	}
}

func TestRendererDropInvalidDraws(t *testing.T) {
	r := newTestRenderer(t)
	r.SetDropInvalidDraws(true)
	if err := r.Frame().Draw(42, "fg", DefaultInstance()); err != nil {
		t.Errorf("Draw = %v, want nil under DropInvalid", err)
	}
}
