package tangerine

import (
	"image/color"
	"testing"
)

// setupBenchRenderer creates a renderer whose single atlas holds n 32x32
// sprites, with layers bg and fg.
func setupBenchRenderer(b *testing.B, n int) *Renderer {
	b.Helper()
	r := NewRenderer(Rect{Width: 1280, Height: 720})
	for i := 0; i < n; i++ {
		c := color.NRGBA{R: uint8(i), G: uint8(i >> 8), B: 128, A: 255}
		if _, err := r.Stage(SolidBitmap(32, 32, c)); err != nil {
			b.Fatal(err)
		}
	}
	if _, err := r.FinalizeAtlas(); err != nil {
		b.Fatal(err)
	}
	r.SetLayer("bg", -1)
	r.SetLayer("fg", 1)
	return r
}

// --- Packing ---

func BenchmarkPack_500Random(b *testing.B) {
	items := randomItems(3, 500, 64)
	b.ReportAllocs()
	for b.Loop() {
		p := packer{maxSize: 8192}
		if _, _, err := p.pack(items); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFinalize_256Sprites(b *testing.B) {
	bitmaps := make([]SpriteBitmap, 256)
	for i := range bitmaps {
		bitmaps[i] = SolidBitmap(8+i%24, 8+(i*7)%24, color.NRGBA{R: uint8(i), A: 255})
	}
	b.ReportAllocs()
	for b.Loop() {
		ab := NewAtlasBuilder(DefaultAtlasOptions())
		for _, bm := range bitmaps {
			_, _ = ab.Stage(bm)
		}
		if _, err := ab.Finalize(); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Frame building ---

func BenchmarkFrame_10000Draws(b *testing.B) {
	r := setupBenchRenderer(b, 64)
	f := r.Frame()
	b.ReportAllocs()
	for b.Loop() {
		for i := 0; i < 10000; i++ {
			layer := "fg"
			if i%4 == 0 {
				layer = "bg"
			}
			_ = f.Draw(SpriteHandle(i%64), layer, NewInstance(float64(i%100), float64(i/100)))
		}
		f.Finish()
	}
}

func BenchmarkBatch_AppendGPU_10000(b *testing.B) {
	r := setupBenchRenderer(b, 16)
	f := r.Frame()
	for i := 0; i < 10000; i++ {
		_ = f.Draw(SpriteHandle(i%16), "fg", NewInstance(float64(i), 0).WithRotation(Radians(i)))
	}
	batches := f.Finish()
	buf := make([]GPUInstance, 0, 10000)
	b.ReportAllocs()
	for b.Loop() {
		buf = buf[:0]
		for i := range batches {
			buf = batches[i].AppendGPU(buf)
		}
	}
}
