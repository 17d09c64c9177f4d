package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/tangerine"
)

func writeTestPNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"atlaspack"}, args...))
	return out.String(), err
}

func TestPackDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "build")
	writeTestPNG(t, filepath.Join(in, "ship.png"), 8, 8, color.NRGBA{R: 255, A: 255})
	writeTestPNG(t, filepath.Join(in, "rock.png"), 16, 16, color.NRGBA{G: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip"), 0o644))

	stdout, err := runApp(t, "pack", "--out", out, "--name", "sheet", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "packed 2 sprites into 32x32")

	data, err := os.ReadFile(filepath.Join(out, "sheet.json"))
	require.NoError(t, err)
	frames, err := tangerine.ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "rock", frames[0].Name)
	assert.Equal(t, 16, frames[0].Rect.Width)
	assert.Equal(t, "ship", frames[1].Name)
	assert.FileExists(t, filepath.Join(out, "sheet.png"))
}

func TestPackSameBaseNameInTwoDirs(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	out := t.TempDir()
	writeTestPNG(t, filepath.Join(a, "ship.png"), 8, 8, color.NRGBA{R: 255, A: 255})
	writeTestPNG(t, filepath.Join(b, "ship.png"), 4, 4, color.NRGBA{G: 255, A: 255})

	_, err := runApp(t, "pack", "--out", out, a, b)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "atlas.json"))
	require.NoError(t, err)
	frames, err := tangerine.ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "ship", frames[0].Name)
	assert.Equal(t, 8, frames[0].Rect.Width)
	assert.Equal(t, "ship_1", frames[1].Name)
	assert.Equal(t, 4, frames[1].Rect.Width)
}

func TestPackFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tangerine.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[atlas]\npadding = 4\nmax_size = 64\n"), 0o644))
	img := filepath.Join(dir, "a.png")
	writeTestPNG(t, img, 16, 8, color.NRGBA{B: 255, A: 255})

	stdout, err := runApp(t, "pack", "--config", cfgPath, "--padding", "0", "--out", dir, img)
	require.NoError(t, err)
	assert.Contains(t, stdout, "packed 1 sprites into 16x16")
}

func TestPackOverflow(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "big.png")
	writeTestPNG(t, img, 40, 40, color.NRGBA{A: 255})

	_, err := runApp(t, "pack", "--max-size", "32", "--out", dir, img)
	assert.ErrorIs(t, err, tangerine.ErrPackingOverflow)
}

func TestPackRejectsBadMaxSize(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writeTestPNG(t, img, 4, 4, color.NRGBA{A: 255})

	_, err := runApp(t, "pack", "--max-size", "100", "--out", dir, img)
	assert.ErrorContains(t, err, "power of two")
}

func TestPackNoInputs(t *testing.T) {
	_, err := runApp(t, "pack")
	assert.Error(t, err)
}

func TestSpriteName(t *testing.T) {
	assert.Equal(t, "ship", spriteName("/a/b/ship.png"))
	assert.Equal(t, "tiles.v2", spriteName("tiles.v2.webp"))
}

func TestNextPow2(t *testing.T) {
	for in, want := range map[int]int{1: 1, 2: 2, 3: 4, 17: 32, 64: 64} {
		assert.Equal(t, want, nextPow2(in), "nextPow2(%d)", in)
	}
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func TestOccupancyDraw(t *testing.T) {
	frames := []tangerine.ManifestFrame{
		{Name: "left", Rect: tangerine.PlacedRect{X: 0, Y: 0, Width: 16, Height: 32}},
	}
	v := newOccupancyView("sheet.json", frames)
	assert.Equal(t, 16, v.canvas.Width)
	assert.Equal(t, 32, v.canvas.Height)

	v.canvas.Width = 32 // right half free
	s := newSimScreen(t, 4, 5)
	v.draw(s)

	for y := range 4 {
		for x := range 4 {
			r, _, _, _ := s.GetContent(x, y)
			if x < 2 {
				assert.Equal(t, usedRune, r, "cell %d,%d", x, y)
			} else {
				assert.Equal(t, freeRune, r, "cell %d,%d", x, y)
			}
		}
	}
	r, _, _, _ := s.GetContent(0, 4)
	assert.Equal(t, 's', r)
	assert.InDelta(t, 0.5, v.utilization(), 1e-9)
}

func TestOccupancyRunQuits(t *testing.T) {
	s := newSimScreen(t, 10, 4)
	v := newOccupancyView("m.json", nil)
	require.NoError(t, s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.NoError(t, v.run(s))
}

func TestPageFrames(t *testing.T) {
	frames := []tangerine.ManifestFrame{{Name: "a", Page: 0}, {Name: "b", Page: 1}, {Name: "c", Page: 1}}
	got := pageFrames(frames, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
}
