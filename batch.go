package tangerine

// DrawInstance is one buffered draw: the instance plus the sprite it
// resolved to when it was drawn.
type DrawInstance struct {
	Sprite   SpriteHandle
	Instance SpriteInstance
	Info     SpriteInfo
}

// Batch is an ordered group of instances sharing a layer and an atlas,
// submittable as one instanced draw call. Later instances composite over
// earlier ones.
type Batch struct {
	Layer     string
	ZOrder    int
	Atlas     AtlasID
	Instances []DrawInstance
}

// GPUInstance is the per-instance payload of an instanced quad draw.
//
// Model maps the unit quad [0,1]² (origin bottom-left, Y up) to world space
// in [a, b, c, d, tx, ty] layout. Quad corner (0, 1) samples (U0, V0) and
// corner (1, 0) samples (U1, V1).
type GPUInstance struct {
	Model   [6]float32
	UV      [4]float32
	Opacity float32
	Depth   float32
}

// batchKey groups instances that can share one draw call.
type batchKey struct {
	layer string
	atlas AtlasID
}

func instanceBatchKey(layer string, d *DrawInstance) batchKey {
	return batchKey{layer: layer, atlas: d.Info.Atlas}
}

// QuadSize returns the unscaled world size of a sprite: one unit tall, with
// the pixel aspect ratio preserved.
func QuadSize(info SpriteInfo) (w, h float64) {
	if info.Height <= 0 {
		return 1, 1
	}
	return float64(info.Width) / float64(info.Height), 1
}

// Model returns the instance's unit-quad → world matrix.
func (d *DrawInstance) Model() [6]float64 {
	qw, qh := QuadSize(d.Info)
	return instanceModel(d.Instance, qw, qh)
}

// GPU converts the instance to its GPU payload.
func (d *DrawInstance) GPU() GPUInstance {
	uv := d.Info.UV
	return GPUInstance{
		Model:   affine32(d.Model()),
		UV:      [4]float32{uv.U0, uv.V0, uv.U1, uv.V1},
		Opacity: float32(clamp01(d.Instance.Opacity)),
		Depth:   float32(d.Instance.Position.Z),
	}
}

// AppendGPU appends the batch's instances, in draw order, to dst.
func (b *Batch) AppendGPU(dst []GPUInstance) []GPUInstance {
	for i := range b.Instances {
		dst = append(dst, b.Instances[i].GPU())
	}
	return dst
}

// Len returns the number of instances in the batch.
func (b *Batch) Len() int { return len(b.Instances) }

// countInstances sums instances across batches.
func countInstances(batches []Batch) int {
	n := 0
	for i := range batches {
		n += len(batches[i].Instances)
	}
	return n
}
