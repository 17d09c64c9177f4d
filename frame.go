package tangerine

import "fmt"

// FrameState is the accumulation state of a FrameBuilder.
type FrameState uint8

const (
	// FrameDrained means no draws are pending: the builder is new or Finish
	// has just emitted the previous frame.
	FrameDrained FrameState = iota
	// FrameAccumulating means at least one draw is pending.
	FrameAccumulating
)

func (s FrameState) String() string {
	switch s {
	case FrameDrained:
		return "drained"
	case FrameAccumulating:
		return "accumulating"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// FrameBuilder buffers one frame's draws and turns them into ordered batches.
// The first Draw after Finish starts the next frame. A FrameBuilder must be
// driven by a single frame loop.
type FrameBuilder struct {
	sprites *SpriteRegistry
	layers  *LayerRegistry

	pending map[string][]DrawInstance
	state   FrameState
	count   int
	dropped int

	// DropInvalid makes Draw log and discard calls with an unknown sprite or
	// layer instead of returning the error.
	DropInvalid bool
}

// NewFrameBuilder creates a drained builder that validates draws against
// the given registries.
func NewFrameBuilder(sprites *SpriteRegistry, layers *LayerRegistry) *FrameBuilder {
	return &FrameBuilder{
		sprites: sprites,
		layers:  layers,
		pending: make(map[string][]DrawInstance),
	}
}

// State returns the current accumulation state.
func (f *FrameBuilder) State() FrameState { return f.state }

// Pending returns the number of buffered draws.
func (f *FrameBuilder) Pending() int { return f.count }

// Dropped returns the number of draws discarded by DropInvalid this frame.
func (f *FrameBuilder) Dropped() int { return f.dropped }

// Sprites returns the registry draws are validated against.
func (f *FrameBuilder) Sprites() *SpriteRegistry { return f.sprites }

// Layers returns the layer registry used for ordering.
func (f *FrameBuilder) Layers() *LayerRegistry { return f.layers }

// Draw buffers one instance of sprite h on the named layer. Call order within
// a layer is preserved. Unknown sprites fail with ErrUnknownSprite, unknown
// layers with ErrUnknownLayer; a rejected call leaves the frame untouched.
func (f *FrameBuilder) Draw(h SpriteHandle, layer string, inst SpriteInstance) error {
	info, ok := f.sprites.Lookup(h)
	if !ok {
		return f.reject(fmt.Errorf("%w: handle %d (registry has %d sprites)", ErrUnknownSprite, h, f.sprites.Len()))
	}
	if !f.layers.Has(layer) {
		return f.reject(fmt.Errorf("%w: %q", ErrUnknownLayer, layer))
	}
	f.pending[layer] = append(f.pending[layer], DrawInstance{Sprite: h, Instance: inst, Info: info})
	f.count++
	f.state = FrameAccumulating
	return nil
}

func (f *FrameBuilder) reject(err error) error {
	if !f.DropInvalid {
		return err
	}
	f.dropped++
	logger().Warn("draw dropped", "error", err)
	return nil
}

// Finish emits the frame's batches and clears the builder. Layers draw in
// registry order; within a layer each maximal run of same-atlas instances
// becomes one batch, in insertion order. Layers without draws emit nothing.
// The returned batches are owned by the caller.
func (f *FrameBuilder) Finish() []Batch {
	var batches []Batch
	for _, l := range f.layers.Ordered() {
		insts := f.pending[l.Name]
		if len(insts) == 0 {
			continue
		}
		batches = appendLayerBatches(batches, l, insts)
	}
	clear(f.pending)
	f.count = 0
	f.dropped = 0
	f.state = FrameDrained
	return batches
}

// appendLayerBatches splits one layer's instances into same-atlas runs.
func appendLayerBatches(dst []Batch, l Layer, insts []DrawInstance) []Batch {
	start := 0
	key := instanceBatchKey(l.Name, &insts[0])
	for i := 1; i <= len(insts); i++ {
		if i < len(insts) && instanceBatchKey(l.Name, &insts[i]) == key {
			continue
		}
		dst = append(dst, Batch{
			Layer:     l.Name,
			ZOrder:    l.ZOrder,
			Atlas:     key.atlas,
			Instances: insts[start:i:i],
		})
		if i < len(insts) {
			start, key = i, instanceBatchKey(l.Name, &insts[i])
		}
	}
	return dst
}
