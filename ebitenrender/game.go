package ebitenrender

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/tangerine"
)

// RunConfig configures the standalone window.
type RunConfig struct {
	Title         string
	Width, Height int
	// Background is the clear color. nil leaves the screen black.
	Background color.Color
	Resizable  bool
	// ShowFPS draws the stats overlay in the top-left corner.
	ShowFPS bool
}

// InputState is the per-tick input snapshot handed to the callback. Pressed
// and Released hold the keys whose state changed this tick.
type InputState struct {
	Pressed  []ebiten.Key
	Released []ebiten.Key
	// Cursor is the cursor position in window pixels.
	Cursor tangerine.Vec2
	// Clicked is set on the tick the left mouse button goes down.
	Clicked bool
	// DeltaTime is the tick length in seconds.
	DeltaTime float64
}

// JustPressed reports whether k is in Pressed.
func (in *InputState) JustPressed(k ebiten.Key) bool {
	for _, p := range in.Pressed {
		if p == k {
			return true
		}
	}
	return false
}

// JustReleased reports whether k is in Released.
func (in *InputState) JustReleased(k ebiten.Key) bool {
	for _, r := range in.Released {
		if r == k {
			return true
		}
	}
	return false
}

// DrawCallback runs once per tick. It updates game state and issues draws
// through r.Frame(). Returning ebiten.Termination ends the loop cleanly.
type DrawCallback func(r *tangerine.Renderer, in *InputState) error

// Game adapts a Renderer and a DrawCallback to ebiten.Game.
type Game struct {
	renderer  *tangerine.Renderer
	callback  DrawCallback
	submitter *Submitter
	cfg       RunConfig

	input   InputState
	inject  []syntheticInput
	stats   *statsOverlay
	batches []tangerine.Batch
	width   int
	height  int
}

// NewGame creates a game driving r with cb.
func NewGame(r *tangerine.Renderer, cfg RunConfig, cb DrawCallback) *Game {
	g := &Game{
		renderer:  r,
		callback:  cb,
		submitter: NewSubmitter(),
		cfg:       cfg,
	}
	if cfg.ShowFPS {
		g.stats = newStatsOverlay()
	}
	return g
}

// Submitter returns the game's batch submitter.
func (g *Game) Submitter() *Submitter { return g.submitter }

// Update advances camera animations, runs the callback, and ends the frame.
// Only the last frame built before a Draw is shown.
func (g *Game) Update() error {
	if !g.nextInjected() {
		g.pollInput()
	}
	return g.tick()
}

// pollInput reads the real keyboard and mouse state.
func (g *Game) pollInput() {
	in := &g.input
	in.Pressed = inpututil.AppendJustPressedKeys(in.Pressed[:0])
	in.Released = inpututil.AppendJustReleasedKeys(in.Released[:0])
	cx, cy := ebiten.CursorPosition()
	in.Cursor = tangerine.Vec2{X: float64(cx), Y: float64(cy)}
	in.Clicked = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.DeltaTime = 1.0 / float64(ebiten.TPS())
}

func (g *Game) tick() error {
	in := &g.input
	g.renderer.Camera().Update(float32(in.DeltaTime))
	if g.callback != nil {
		if err := g.callback(g.renderer, in); err != nil {
			return err
		}
	}
	g.batches = g.renderer.EndFrame()
	if g.stats != nil {
		g.stats.update(in.DeltaTime, g.batches)
	}
	return nil
}

// Draw uploads any new atlases and submits the latest batches.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.cfg.Background != nil {
		screen.Fill(g.cfg.Background)
	}
	g.submitter.Pages.Sync(g.renderer.Sprites())
	calls := g.submitter.Submit(screen, g.batches, g.renderer.Camera())
	if g.stats != nil {
		g.stats.calls = calls
		g.stats.draw(screen)
	}
}

// Layout keeps the camera viewport matched to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		err := g.renderer.Camera().SetViewport(tangerine.Rect{
			Width:  float64(outsideWidth),
			Height: float64(outsideHeight),
		})
		if err != nil {
			tangerine.Logger().Warn("viewport not applied", "error", err)
		} else {
			g.width, g.height = outsideWidth, outsideHeight
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives r with cb until the window closes or cb
// returns an error. ebiten.Termination is not reported as an error.
func Run(cfg RunConfig, r *tangerine.Renderer, cb DrawCallback) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	if cfg.Title == "" {
		cfg.Title = "tangerine"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := NewGame(r, cfg, cb)
	defer g.submitter.Pages.Dispose()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebitenrender: run: %w", err)
	}
	return nil
}
