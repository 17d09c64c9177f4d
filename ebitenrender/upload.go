package ebitenrender

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tangerine"
)

// Upload creates a GPU image holding the atlas pixels.
func Upload(a *tangerine.Atlas) *ebiten.Image {
	return ebiten.NewImageFromImage(a.Image())
}

// Pages maps atlas IDs to uploaded images.
type Pages map[tangerine.AtlasID]*ebiten.Image

// Sync uploads every atlas in reg that has no page yet and returns the number
// uploaded. Atlases are immutable, so existing pages are never refreshed.
func (p Pages) Sync(reg *tangerine.SpriteRegistry) int {
	n := 0
	for _, a := range reg.Atlases() {
		if _, ok := p[a.ID()]; ok {
			continue
		}
		p[a.ID()] = Upload(a)
		n++
		tangerine.Logger().Debug("atlas uploaded", "id", a.ID(), "width", a.Width(), "height", a.Height())
	}
	return n
}

// Dispose releases every page.
func (p Pages) Dispose() {
	for id, img := range p {
		img.Deallocate()
		delete(p, id)
	}
}
