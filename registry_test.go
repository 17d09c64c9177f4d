package tangerine

import (
	"errors"
	"testing"
)

func buildAtlas(t *testing.T, id AtlasID, sizes ...int) *Atlas {
	t.Helper()
	b := NewAtlasBuilder(AtlasOptions{ID: id, Padding: 1})
	for _, s := range sizes {
		if _, err := b.Stage(SolidBitmap(s, s, red)); err != nil {
			t.Fatal(err)
		}
	}
	return finalizeOrFatal(t, b)
}

func TestSpriteRegistryConcatenatesAtlases(t *testing.T) {
	a0 := buildAtlas(t, 0, 4, 8)
	a1 := buildAtlas(t, 1, 2, 2, 2)
	r := NewSpriteRegistry(a0)
	base, err := r.Add(a1)
	if err != nil {
		t.Fatal(err)
	}
	if base != 2 {
		t.Errorf("base = %d, want 2", base)
	}
	if r.Len() != 5 {
		t.Errorf("Len = %d, want 5", r.Len())
	}
	s, ok := r.Lookup(3)
	if !ok || s.Atlas != 1 || s.Handle != 3 || s.Width != 2 {
		t.Errorf("Lookup(3) = %+v, %v", s, ok)
	}
	if _, ok := r.Lookup(5); ok {
		t.Error("Lookup(5) ok past the end")
	}
	// The atlas keeps its local handles.
	if local, _ := a1.Sprite(1); local.Handle != 1 {
		t.Errorf("atlas sprite handle rewritten to %d", local.Handle)
	}
	if r.Atlas(1) != a1 || r.Atlas(7) != nil {
		t.Error("Atlas lookup by ID broken")
	}
	if len(r.Atlases()) != 2 {
		t.Errorf("Atlases = %d, want 2", len(r.Atlases()))
	}
}

func TestSpriteRegistryDuplicateAtlas(t *testing.T) {
	r := NewSpriteRegistry(buildAtlas(t, 0, 4))
	if _, err := r.Add(buildAtlas(t, 0, 4)); !errors.Is(err, ErrDuplicateAtlas) {
		t.Errorf("err = %v, want ErrDuplicateAtlas", err)
	}
}

func TestSpriteRegistryLookupName(t *testing.T) {
	b := NewAtlasBuilder(AtlasOptions{ID: 4})
	_, _ = b.StageNamed("ship", SolidBitmap(4, 4, red))
	r := NewSpriteRegistry(buildAtlas(t, 0, 2, 2))
	_, _ = r.Add(finalizeOrFatal(t, b))

	h, ok := r.LookupName("ship")
	if !ok || h != 2 {
		t.Errorf("LookupName(ship) = %d, %v; want 2", h, ok)
	}
	if _, ok := r.LookupName("nope"); ok {
		t.Error("LookupName found a missing name")
	}
}
