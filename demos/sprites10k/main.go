// sprites10k spawns 10,000 sprites that rotate, scale, fade, and bounce
// around the view simultaneously. A stress test for batching: every sprite
// shares one atlas, so each layer is a single draw call.
package main

import (
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/phanxgames/tangerine"
	"github.com/phanxgames/tangerine/ebitenrender"
)

const (
	screenW    = 1280
	screenH    = 720
	count      = 10_000
	cameraSize = 36
	layer      = "sprites"
)

type sprite struct {
	handle     tangerine.SpriteHandle
	pos        tangerine.Vec2
	vel        tangerine.Vec2
	rotation   float64
	rotSpeed   float64
	scaleSpeed float64
	scaleBase  float64
	scaleAmp   float64
	alphaSpeed float64
	phase      float64
}

var tints = []color.NRGBA{
	{R: 240, G: 150, B: 40, A: 255},
	{R: 90, G: 200, B: 250, A: 255},
	{R: 160, G: 230, B: 110, A: 255},
	{R: 250, G: 110, B: 180, A: 255},
}

func main() {
	r := tangerine.NewRenderer(tangerine.Rect{Width: screenW, Height: screenH})
	handles := make([]tangerine.SpriteHandle, len(tints))
	for i, c := range tints {
		h, err := r.Stage(disc(32, c))
		if err != nil {
			log.Fatal(err)
		}
		handles[i] = h
	}
	if _, err := r.FinalizeAtlas(); err != nil {
		log.Fatal(err)
	}
	r.SetLayer(layer, 0)
	if err := r.MutateCamera(func(s *tangerine.CameraState) { s.Size = cameraSize }); err != nil {
		log.Fatal(err)
	}

	halfH := cameraSize / 2.0
	halfW := halfH * screenW / screenH
	sprites := make([]sprite, count)
	for i := range sprites {
		base := 0.4 + rand.Float64()*0.6
		sprites[i] = sprite{
			handle:     handles[i%len(handles)],
			pos:        tangerine.Vec2{X: (rand.Float64()*2 - 1) * halfW, Y: (rand.Float64()*2 - 1) * halfH},
			vel:        tangerine.Vec2{X: (rand.Float64() - 0.5) * 8, Y: (rand.Float64() - 0.5) * 8},
			rotSpeed:   (rand.Float64() - 0.5) * 5,
			scaleSpeed: 1 + rand.Float64()*2,
			scaleBase:  base,
			scaleAmp:   0.1 + rand.Float64()*0.2,
			alphaSpeed: 0.5 + rand.Float64()*2,
			phase:      rand.Float64() * math.Pi * 2,
		}
	}

	var elapsed float64
	update := func(r *tangerine.Renderer, in *ebitenrender.InputState) error {
		dt := in.DeltaTime
		elapsed += dt
		frame := r.Frame()
		for i := range sprites {
			s := &sprites[i]
			s.pos = s.pos.Add(tangerine.Vec2{X: s.vel.X * dt, Y: s.vel.Y * dt})
			if math.Abs(s.pos.X) > halfW {
				s.pos.X = math.Copysign(halfW, s.pos.X)
				s.vel.X = -s.vel.X
			}
			if math.Abs(s.pos.Y) > halfH {
				s.pos.Y = math.Copysign(halfH, s.pos.Y)
				s.vel.Y = -s.vel.Y
			}
			s.rotation += s.rotSpeed * dt

			inst := tangerine.NewInstance(s.pos.X, s.pos.Y).
				WithScale(s.scaleBase + s.scaleAmp*math.Sin(elapsed*s.scaleSpeed+s.phase)).
				WithRotation(tangerine.Radians(s.rotation)).
				WithOpacity(0.5 + 0.5*math.Sin(elapsed*s.alphaSpeed+s.phase))
			if err := frame.Draw(s.handle, layer, inst); err != nil {
				return err
			}
		}
		return nil
	}

	if err := ebitenrender.Run(ebitenrender.RunConfig{
		Title:      "Tangerine 10k Sprites",
		Width:      screenW,
		Height:     screenH,
		Background: color.NRGBA{R: 15, G: 15, B: 23, A: 255},
		ShowFPS:    true,
	}, r, update); err != nil {
		log.Fatal(err)
	}
}

// disc returns a size×size bitmap holding a soft-edged disc of color c.
func disc(size int, c color.NRGBA) tangerine.SpriteBitmap {
	pix := make([]byte, 4*size*size)
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) / r
			a := math.Max(0, math.Min(1, (1-d)*4))
			i := 4 * (y*size + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, uint8(a*float64(c.A))
		}
	}
	b, _ := tangerine.NewBitmap(size, size, pix)
	return b
}
