// Package tangerine packs sprite bitmaps into texture atlases and turns a
// frame's worth of sprite draws into ordered, atlas-coherent batches.
//
// Rendering itself is left to a backend: [ebitenrender] draws batches with
// Ebitengine, and the ecs module feeds draws from a [Donburi] world.
//
// # Quick start
//
// Stage bitmaps, finalize the atlas, register layers, then draw every frame:
//
//	r := tangerine.NewRenderer(tangerine.Rect{Width: 800, Height: 600})
//	ship, _ := r.Stage(tangerine.SolidBitmap(16, 16, color.NRGBA{R: 255, A: 255}))
//	if _, err := r.FinalizeAtlas(); err != nil {
//		return err
//	}
//	r.SetLayer("background", -1)
//	r.SetLayer("foreground", 1)
//
//	_ = r.Frame().Draw(ship, "foreground", tangerine.NewInstance(0, 0))
//	batches := r.EndFrame()
//
// # Atlases
//
// An [AtlasBuilder] accepts bitmaps until [AtlasBuilder.Finalize], which packs
// them with a guillotine best-area-fit packer into a power-of-two canvas no
// larger than [AtlasOptions.MaxSize]. Each sprite is surrounded by a padding
// border filled with its own edge pixels, so bilinear sampling never picks up
// a neighbour. The finalized [Atlas] is read-only. Packing is deterministic:
// the same staged bitmaps in the same order produce identical bytes.
//
// # Frames
//
// [FrameBuilder.Draw] buffers instances per layer. [FrameBuilder.Finish]
// emits batches ordered by layer z-order (ties by registration order), and
// within a layer in draw order. A layer whose draws span several atlases
// yields one batch per consecutive same-atlas run.
//
// # Coordinates
//
// World space is Y-up. The [Camera] Size is the visible world height; width
// follows the viewport aspect ratio. Screen space is Y-down pixels inside the
// viewport.
//
// # Logging
//
// Nothing is logged by default. Install a [log/slog] logger with [SetLogger].
//
// [ebitenrender]: https://pkg.go.dev/github.com/phanxgames/tangerine/ebitenrender
// [Donburi]: https://github.com/yohamta/donburi
package tangerine
