package ebitenrender

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/tangerine"
)

const statsRefresh = 0.5 // seconds

// statsOverlay prints FPS, TPS, and the last frame's batch counts. The text
// is rebuilt about twice a second.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string

	batches   int
	instances int
	calls     int
}

func newStatsOverlay() *statsOverlay {
	return &statsOverlay{elapsed: statsRefresh}
}

// update records the frame's batches and reports whether the text changed.
func (s *statsOverlay) update(dt float64, batches []tangerine.Batch) bool {
	s.batches = len(batches)
	s.instances = 0
	for i := range batches {
		s.instances += batches[i].Len()
	}
	s.elapsed += dt
	if s.elapsed < statsRefresh {
		return false
	}
	s.elapsed = 0
	s.text = s.format(ebiten.ActualFPS(), ebiten.ActualTPS())
	return true
}

func (s *statsOverlay) format(fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nbatches: %d (%d calls)\nsprites: %d",
		fps, tps, s.batches, s.calls, s.instances)
}

func (s *statsOverlay) draw(screen *ebiten.Image) {
	if s.img == nil {
		// Sized for four lines of the debug font.
		s.img = ebiten.NewImage(180, 64)
	}
	s.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(s.img, s.text)
	screen.DrawImage(s.img, nil)
}
