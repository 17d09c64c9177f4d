package ebitenrender

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tangerine"
)

// Submitter turns batches into DrawTriangles32 calls. Its vertex and index
// buffers are reused across frames. Not safe for concurrent use.
type Submitter struct {
	Pages Pages

	// Filter selects texture sampling. The atlas padding keeps linear
	// filtering free of neighbour bleed.
	Filter ebiten.Filter
	// Blend is the composite mode for every batch. The zero value is
	// source-over.
	Blend ebiten.Blend

	verts []ebiten.Vertex
	inds  []uint32

	calls   int
	skipped int
}

// NewSubmitter creates a submitter with an empty page table.
func NewSubmitter() *Submitter {
	return &Submitter{Pages: make(Pages)}
}

// Submit draws batches onto target in order and returns the number of draw
// calls issued. Batches whose atlas has no page are skipped.
func (s *Submitter) Submit(target *ebiten.Image, batches []tangerine.Batch, cam *tangerine.Camera) int {
	s.calls, s.skipped = 0, 0
	for i := range batches {
		b := &batches[i]
		page := s.Pages[b.Atlas]
		if page == nil || len(b.Instances) == 0 {
			s.skipped++
			continue
		}
		s.verts, s.inds = appendBatch(s.verts[:0], s.inds[:0], b, cam, page.Bounds().Dx(), page.Bounds().Dy())
		s.flush(target, page)
	}
	if s.skipped > 0 {
		tangerine.Logger().Warn("batches skipped without an uploaded atlas", "count", s.skipped)
	}
	return s.calls
}

// flush submits accumulated vertices as a single DrawTriangles32 call.
func (s *Submitter) flush(target, page *ebiten.Image) {
	if len(s.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = s.Blend
	op.Filter = s.Filter
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(s.verts, s.inds, page, &op)
	s.calls++
}

// appendBatch appends four vertices and six indices per instance.
func appendBatch(verts []ebiten.Vertex, inds []uint32, b *tangerine.Batch, cam *tangerine.Camera, pageW, pageH int) ([]ebiten.Vertex, []uint32) {
	for i := range b.Instances {
		verts, inds = appendQuad(verts, inds, &b.Instances[i], cam, pageW, pageH)
	}
	return verts, inds
}

// appendQuad emits one instance. Unit-quad corners (0,1), (1,1), (0,0), (1,0)
// are the sprite's top-left, top-right, bottom-left and bottom-right.
func appendQuad(verts []ebiten.Vertex, inds []uint32, d *tangerine.DrawInstance, cam *tangerine.Camera, pageW, pageH int) ([]ebiten.Vertex, []uint32) {
	m := cam.ScreenModel(d)
	a, b, c, dd, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]

	uv := d.Info.UV
	u0, v0 := uv.U0*float32(pageW), uv.V0*float32(pageH)
	u1, v1 := uv.U1*float32(pageW), uv.V1*float32(pageH)

	// TL, TR, BL, BR
	lx := [4]float64{0, 1, 0, 1}
	ly := [4]float64{1, 1, 0, 0}
	sx := [4]float32{u0, u1, u0, u1}
	sy := [4]float32{v0, v0, v1, v1}

	// Premultiplied white scaled by opacity.
	alpha := float32(d.GPU().Opacity)

	base := uint32(len(verts))
	for i := 0; i < 4; i++ {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(a*lx[i] + c*ly[i] + tx),
			DstY:   float32(b*lx[i] + dd*ly[i] + ty),
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: alpha,
			ColorG: alpha,
			ColorB: alpha,
			ColorA: alpha,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}
