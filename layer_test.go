package tangerine

import (
	"errors"
	"testing"
)

func layerNames(ls []Layer) []string {
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.Name
	}
	return names
}

func assertOrder(t *testing.T, r *LayerRegistry, want ...string) {
	t.Helper()
	got := layerNames(r.Ordered())
	if len(got) != len(want) {
		t.Fatalf("Ordered = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ordered = %v, want %v", got, want)
		}
	}
}

func TestLayerOrderingTieBreak(t *testing.T) {
	r := NewLayerRegistry()
	_ = r.Register("A", 0)
	_ = r.Register("B", 5)
	_ = r.Register("C", 5)
	assertOrder(t, r, "A", "B", "C")
}

func TestLayerNegativeZ(t *testing.T) {
	r := NewLayerRegistry()
	_ = r.Register("foreground", 1)
	_ = r.Register("background", -1)
	assertOrder(t, r, "background", "foreground")
}

func TestLayerRegisterDuplicate(t *testing.T) {
	r := NewLayerRegistry()
	_ = r.Register("A", 0)
	if err := r.Register("A", 9); !errors.Is(err, ErrDuplicateLayer) {
		t.Fatalf("err = %v, want ErrDuplicateLayer", err)
	}
	z, seq, err := r.OrderKey("A")
	if err != nil || z != 0 || seq != 0 {
		t.Errorf("OrderKey = %d, %d, %v; want unchanged 0, 0", z, seq, err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestLayerSetZOrderKeepsSequence(t *testing.T) {
	r := NewLayerRegistry()
	_ = r.Register("A", 0)
	_ = r.Register("B", 5)
	_ = r.Register("C", 5)
	assertOrder(t, r, "A", "B", "C")

	if err := r.SetZOrder("A", 5); err != nil {
		t.Fatal(err)
	}
	// A keeps its first-registration sequence, so it wins the tie.
	assertOrder(t, r, "A", "B", "C")

	if err := r.SetZOrder("A", 10); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, r, "B", "C", "A")

	if err := r.SetZOrder("missing", 1); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("err = %v, want ErrUnknownLayer", err)
	}
}

func TestLayerSetLayerUpserts(t *testing.T) {
	r := NewLayerRegistry()
	r.SetLayer("fg", 1)
	r.SetLayer("bg", -1)
	assertOrder(t, r, "bg", "fg")
	r.SetLayer("bg", 2)
	assertOrder(t, r, "fg", "bg")
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestLayerLess(t *testing.T) {
	r := NewLayerRegistry()
	_ = r.Register("A", 0)
	_ = r.Register("B", 0)
	if !r.Less("A", "B") || r.Less("B", "A") {
		t.Error("registration order tie-break broken")
	}
	if !r.Less("A", "unknown") || r.Less("unknown", "A") {
		t.Error("unknown layers should sort last")
	}
}

func TestLayerOrderedCacheInvalidates(t *testing.T) {
	r := NewLayerRegistry()
	_ = r.Register("A", 0)
	assertOrder(t, r, "A")
	_ = r.Register("B", -1)
	assertOrder(t, r, "B", "A")
}
