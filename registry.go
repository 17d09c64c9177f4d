package tangerine

import "fmt"

// SpriteRegistry is the frozen sprite table consulted by frame builders. It
// concatenates one or more atlases: the first atlas keeps its local handles,
// later atlases are offset by the number of sprites already registered.
type SpriteRegistry struct {
	atlases []*Atlas
	sprites []SpriteInfo
}

// NewSpriteRegistry builds a registry from atlases in order. It panics on a
// duplicate atlas ID, which is a programming error.
func NewSpriteRegistry(atlases ...*Atlas) *SpriteRegistry {
	r := &SpriteRegistry{}
	for _, a := range atlases {
		if _, err := r.Add(a); err != nil {
			panic(err)
		}
	}
	return r
}

// Add appends an atlas and returns the global handle of its first sprite.
// Global handle = returned base + local handle.
func (r *SpriteRegistry) Add(a *Atlas) (SpriteHandle, error) {
	for _, existing := range r.atlases {
		if existing.id == a.id {
			return 0, fmt.Errorf("%w: %d", ErrDuplicateAtlas, a.id)
		}
	}
	base := SpriteHandle(len(r.sprites))
	r.atlases = append(r.atlases, a)
	for _, s := range a.sprites {
		s.Handle = base + s.Handle
		r.sprites = append(r.sprites, s)
	}
	return base, nil
}

// Lookup returns the sprite for a global handle.
func (r *SpriteRegistry) Lookup(h SpriteHandle) (SpriteInfo, bool) {
	if int(h) >= len(r.sprites) {
		return SpriteInfo{}, false
	}
	return r.sprites[h], true
}

// Len returns the number of registered sprites.
func (r *SpriteRegistry) Len() int { return len(r.sprites) }

// Atlas returns the registered atlas with the given ID, or nil.
func (r *SpriteRegistry) Atlas(id AtlasID) *Atlas {
	for _, a := range r.atlases {
		if a.id == id {
			return a
		}
	}
	return nil
}

// Atlases returns registered atlases in registration order. The returned
// slice MUST NOT be mutated.
func (r *SpriteRegistry) Atlases() []*Atlas { return r.atlases }

// LookupName returns the global handle of the first sprite with the given
// name, searching atlases in registration order.
func (r *SpriteRegistry) LookupName(name string) (SpriteHandle, bool) {
	for i := range r.sprites {
		if r.sprites[i].Name == name {
			return r.sprites[i].Handle, true
		}
	}
	return 0, false
}
