package tangerine

import (
	"fmt"
	"sort"
)

// Layer is a named compositing bucket. Layers draw in ascending ZOrder; equal
// ZOrders draw in registration order.
type Layer struct {
	Name   string
	ZOrder int
	// Seq is the registration sequence number, starting at 0.
	Seq uint64
}

// LayerRegistry maps layer names to their ordering keys. Layers are never
// removed.
type LayerRegistry struct {
	layers  map[string]*Layer
	nextSeq uint64

	ordered      []Layer
	orderedValid bool
}

// NewLayerRegistry creates an empty registry.
func NewLayerRegistry() *LayerRegistry {
	return &LayerRegistry{layers: make(map[string]*Layer)}
}

// Register adds a new layer. Registering an existing name fails with
// ErrDuplicateLayer and leaves the registry unchanged; use SetZOrder or
// SetLayer to reassign.
func (r *LayerRegistry) Register(name string, zOrder int) error {
	if _, ok := r.layers[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
	}
	r.layers[name] = &Layer{Name: name, ZOrder: zOrder, Seq: r.nextSeq}
	r.nextSeq++
	r.orderedValid = false
	return nil
}

// SetZOrder reassigns an existing layer's z-order. The registration sequence
// is kept, so ties still resolve by first registration.
func (r *LayerRegistry) SetZOrder(name string, zOrder int) error {
	l, ok := r.layers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	if l.ZOrder != zOrder {
		l.ZOrder = zOrder
		r.orderedValid = false
	}
	return nil
}

// SetLayer registers name with zOrder, or reassigns its z-order if it
// already exists.
func (r *LayerRegistry) SetLayer(name string, zOrder int) {
	if err := r.SetZOrder(name, zOrder); err != nil {
		_ = r.Register(name, zOrder)
	}
}

// OrderKey returns the layer's z-order and registration sequence.
func (r *LayerRegistry) OrderKey(name string) (zOrder int, seq uint64, err error) {
	l, ok := r.layers[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return l.ZOrder, l.Seq, nil
}

// Has reports whether name is registered.
func (r *LayerRegistry) Has(name string) bool {
	_, ok := r.layers[name]
	return ok
}

// Len returns the number of registered layers.
func (r *LayerRegistry) Len() int { return len(r.layers) }

// Less reports whether layer a draws before layer b. Unknown layers sort
// after known ones.
func (r *LayerRegistry) Less(a, b string) bool {
	la, oka := r.layers[a]
	lb, okb := r.layers[b]
	if !oka || !okb {
		return oka && !okb
	}
	return layerLess(*la, *lb)
}

func layerLess(a, b Layer) bool {
	if a.ZOrder != b.ZOrder {
		return a.ZOrder < b.ZOrder
	}
	return a.Seq < b.Seq
}

// Ordered returns every layer in draw order. The returned slice is cached
// until the next registration or reassignment and MUST NOT be mutated.
func (r *LayerRegistry) Ordered() []Layer {
	if r.orderedValid {
		return r.ordered
	}
	r.ordered = r.ordered[:0]
	for _, l := range r.layers {
		r.ordered = append(r.ordered, *l)
	}
	sort.Slice(r.ordered, func(i, j int) bool {
		return layerLess(r.ordered[i], r.ordered[j])
	})
	r.orderedValid = true
	return r.ordered
}
