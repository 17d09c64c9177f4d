package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/phanxgames/tangerine"
)

const (
	freeRune = '·'
	usedRune = '█'
)

var frameColors = []tcell.Color{
	tcell.ColorOrange,
	tcell.ColorTeal,
	tcell.ColorFuchsia,
	tcell.ColorYellow,
	tcell.ColorLime,
	tcell.ColorSkyblue,
}

func previewCommand() cli.Command {
	return cli.Command{
		Name:      "preview",
		Usage:     "show an occupancy map of an atlas manifest in the terminal",
		ArgsUsage: "<manifest.json>",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "page",
				Usage: "Manifest page to show",
			},
		},
		Action: runPreview,
	}
}

func runPreview(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelp(c, "preview")
		return errors.New("expected one manifest path")
	}
	path := c.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	frames, err := tangerine.ParseManifest(data)
	if err != nil {
		return err
	}
	v := newOccupancyView(filepath.Base(path), pageFrames(frames, c.Int("page")))

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	defer screen.Fini()
	return v.run(screen)
}

func pageFrames(frames []tangerine.ManifestFrame, page int) []tangerine.ManifestFrame {
	var out []tangerine.ManifestFrame
	for _, f := range frames {
		if f.Page == page {
			out = append(out, f)
		}
	}
	return out
}

// occupancyView renders which atlas cells are covered by which frame.
type occupancyView struct {
	title  string
	frames []tangerine.ManifestFrame
	canvas tangerine.PlacedRect
}

func newOccupancyView(title string, frames []tangerine.ManifestFrame) *occupancyView {
	w, h := 1, 1
	for _, f := range frames {
		w = max(w, f.Rect.X+f.Rect.Width)
		h = max(h, f.Rect.Y+f.Rect.Height)
	}
	return &occupancyView{
		title:  title,
		frames: frames,
		canvas: tangerine.PlacedRect{Width: nextPow2(w), Height: nextPow2(h)},
	}
}

// run draws until q, Escape, or Ctrl-C is pressed.
func (v *occupancyView) run(s tcell.Screen) error {
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	v.draw(s)
	s.Show()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		case *tcell.EventResize:
			v.draw(s)
			s.Sync()
		}
	}
}

// draw fills all rows but the last with the map; the last row is a status
// line.
func (v *occupancyView) draw(s tcell.Screen) {
	s.Clear()
	cols, rows := s.Size()
	rows--
	if cols <= 0 || rows <= 0 {
		return
	}
	for y := range rows {
		for x := range cols {
			px := (2*x + 1) * v.canvas.Width / (2 * cols)
			py := (2*y + 1) * v.canvas.Height / (2 * rows)
			ch, style := freeRune, tcell.StyleDefault.Foreground(tcell.ColorGray)
			if i := v.frameAt(px, py); i >= 0 {
				ch = usedRune
				style = tcell.StyleDefault.Foreground(frameColors[i%len(frameColors)])
			}
			s.SetContent(x, y, ch, nil, style)
		}
	}
	status := fmt.Sprintf("%s  %dx%d  %d frames  %.1f%% used  (q to quit)",
		v.title, v.canvas.Width, v.canvas.Height, len(v.frames), 100*v.utilization())
	for i, r := range []rune(status) {
		if i >= cols {
			break
		}
		s.SetContent(i, rows, r, nil, tcell.StyleDefault.Reverse(true))
	}
}

// frameAt returns the index of the frame covering pixel (px, py), or -1.
func (v *occupancyView) frameAt(px, py int) int {
	for i, f := range v.frames {
		r := f.Rect
		if px >= r.X && px < r.X+r.Width && py >= r.Y && py < r.Y+r.Height {
			return i
		}
	}
	return -1
}

func (v *occupancyView) utilization() float64 {
	used := 0
	for _, f := range v.frames {
		used += f.Rect.Width * f.Rect.Height
	}
	return float64(used) / float64(v.canvas.Width*v.canvas.Height)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
