package ebitenrender

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tangerine"
)

// syntheticInput is one queued tick of input. Cursor is in window pixels,
// the same space real mouse input uses.
type syntheticInput struct {
	pressed  []ebiten.Key
	released []ebiten.Key
	cursor   tangerine.Vec2
	clicked  bool
}

// InjectKeys queues one tick in which pressed went down and released went
// up. The cursor stays where the previous tick left it. While injected ticks
// are queued, real input is ignored.
func (g *Game) InjectKeys(pressed, released []ebiten.Key) {
	g.inject = append(g.inject, syntheticInput{
		pressed:  pressed,
		released: released,
		cursor:   g.lastCursor(),
	})
}

// InjectTap queues a press of k followed by its release. Consumes two ticks.
func (g *Game) InjectTap(k ebiten.Key) {
	g.InjectKeys([]ebiten.Key{k}, nil)
	g.InjectKeys(nil, []ebiten.Key{k})
}

// InjectClick queues a tick with the cursor at (x, y) and the left button
// just pressed.
func (g *Game) InjectClick(x, y float64) {
	g.inject = append(g.inject, syntheticInput{cursor: tangerine.Vec2{X: x, Y: y}, clicked: true})
}

// InjectCursorPath queues a cursor move from one window position to another
// over the given number of ticks (at least 1).
func (g *Game) InjectCursorPath(from, to tangerine.Vec2, ticks int) {
	ticks = max(ticks, 1)
	for i := 1; i <= ticks; i++ {
		t := float64(i) / float64(ticks)
		g.inject = append(g.inject, syntheticInput{cursor: tangerine.Vec2{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}})
	}
}

// Injected returns the number of queued synthetic ticks.
func (g *Game) Injected() int { return len(g.inject) }

func (g *Game) lastCursor() tangerine.Vec2 {
	if n := len(g.inject); n > 0 {
		return g.inject[n-1].cursor
	}
	return g.input.Cursor
}

// nextInjected pops one synthetic tick into the input state. It returns
// false when the queue is empty.
func (g *Game) nextInjected() bool {
	if len(g.inject) == 0 {
		return false
	}
	evt := g.inject[0]
	copy(g.inject, g.inject[1:])
	g.inject = g.inject[:len(g.inject)-1]

	in := &g.input
	in.Pressed = append(in.Pressed[:0], evt.pressed...)
	in.Released = append(in.Released[:0], evt.released...)
	in.Cursor = evt.cursor
	in.Clicked = evt.clicked
	in.DeltaTime = 1.0 / float64(ebiten.TPS())
	return true
}
