package tangerine

import (
	"cmp"
	"fmt"
	"image"
	"slices"
)

// PlacedRect is a padded rectangle in atlas pixel coordinates.
type PlacedRect struct {
	X, Y, Width, Height int
}

// Overlaps reports whether r and o share any pixel. Touching edges do not
// overlap.
func (r PlacedRect) Overlaps(o PlacedRect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Area returns Width*Height.
func (r PlacedRect) Area() int { return r.Width * r.Height }

func placedFromRect(r image.Rectangle) PlacedRect {
	return PlacedRect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// packItem is one padded rectangle waiting for placement.
type packItem struct {
	handle SpriteHandle
	w, h   int
}

// sortPackItems orders items by descending height, then descending width,
// then ascending handle.
func sortPackItems(items []packItem) {
	slices.SortStableFunc(items, func(a, b packItem) int {
		if a.h != b.h {
			return cmp.Compare(b.h, a.h)
		}
		if a.w != b.w {
			return cmp.Compare(b.w, a.w)
		}
		return cmp.Compare(a.handle, b.handle)
	})
}

// nextPow2 returns the smallest power of two >= v (1 for v <= 1).
func nextPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// packer places rectangles on a power-of-two canvas using guillotine splits
// and best-area-fit selection. The canvas doubles on its shorter axis and
// packing restarts whenever a rectangle does not fit.
type packer struct {
	maxSize  int
	free     []image.Rectangle
	attempts int
}

// pack places every item and returns the placements indexed by handle along
// with the final canvas size. Items are not modified.
func (p *packer) pack(items []packItem) ([]image.Rectangle, image.Point, error) {
	sorted := slices.Clone(items)
	sortPackItems(sorted)

	start := 1
	for _, it := range sorted {
		start = max(start, nextPow2(it.w), nextPow2(it.h))
	}
	size := image.Pt(start, start)
	if start > p.maxSize {
		return nil, size, fmt.Errorf("%w: sprite needs a %dx%d canvas, max is %d",
			ErrPackingOverflow, start, start, p.maxSize)
	}

	placed := make([]image.Rectangle, len(items))
	for {
		p.attempts++
		if p.tryPack(sorted, size, placed) {
			return placed, size, nil
		}
		next, ok := p.grow(size)
		if !ok {
			return nil, size, fmt.Errorf("%w: %d sprites do not fit in %dx%d",
				ErrPackingOverflow, len(items), p.maxSize, p.maxSize)
		}
		logger().Debug("atlas canvas grown", "from", size, "to", next)
		size = next
	}
}

// grow doubles the shorter axis (width when square).
func (p *packer) grow(size image.Point) (image.Point, bool) {
	if size.X <= size.Y && size.X*2 <= p.maxSize {
		return image.Pt(size.X*2, size.Y), true
	}
	if size.Y*2 <= p.maxSize {
		return image.Pt(size.X, size.Y*2), true
	}
	if size.X*2 <= p.maxSize {
		return image.Pt(size.X*2, size.Y), true
	}
	return size, false
}

// tryPack attempts one full placement pass on a canvas of the given size.
func (p *packer) tryPack(items []packItem, size image.Point, placed []image.Rectangle) bool {
	p.free = append(p.free[:0], image.Rectangle{Max: size})
	for _, it := range items {
		i, ok := p.bestFit(it.w, it.h)
		if !ok {
			return false
		}
		space := p.free[i]
		r := image.Rectangle{Min: space.Min, Max: space.Min.Add(image.Pt(it.w, it.h))}
		placed[it.handle] = r
		p.split(i, r)
	}
	return true
}

// bestFit returns the index of the free rectangle leaving the smallest area
// after placing a w×h rectangle. Ties go to the smallest leftover perimeter,
// then the lowest y, then the lowest x.
func (p *packer) bestFit(w, h int) (int, bool) {
	best := -1
	var bestArea, bestPerim int
	for i, f := range p.free {
		fw, fh := f.Dx(), f.Dy()
		if fw < w || fh < h {
			continue
		}
		area := fw*fh - w*h
		perim := (fw - w) + (fh - h)
		if best < 0 || betterFit(area, perim, f.Min, bestArea, bestPerim, p.free[best].Min) {
			best, bestArea, bestPerim = i, area, perim
		}
	}
	return best, best >= 0
}

func betterFit(area, perim int, at image.Point, bestArea, bestPerim int, bestAt image.Point) bool {
	if area != bestArea {
		return area < bestArea
	}
	if perim != bestPerim {
		return perim < bestPerim
	}
	if at.Y != bestAt.Y {
		return at.Y < bestAt.Y
	}
	return at.X < bestAt.X
}

// split replaces free[i] with the space below the placed rectangle (full
// width) and the space to its right (placed height), then prunes and merges.
func (p *packer) split(i int, placed image.Rectangle) {
	space := p.free[i]
	p.free = slices.Delete(p.free, i, i+1)

	below := image.Rectangle{
		Min: image.Pt(space.Min.X, placed.Max.Y),
		Max: space.Max,
	}
	right := image.Rectangle{
		Min: image.Pt(placed.Max.X, space.Min.Y),
		Max: image.Pt(space.Max.X, placed.Max.Y),
	}
	if !below.Empty() {
		p.free = append(p.free, below)
	}
	if !right.Empty() {
		p.free = append(p.free, right)
	}
	p.prune()
	p.merge()
}

// prune drops free rectangles fully contained in another.
func (p *packer) prune() {
	for i := 0; i < len(p.free); i++ {
		for j := 0; j < len(p.free); j++ {
			if i != j && p.free[i].In(p.free[j]) {
				p.free = slices.Delete(p.free, i, i+1)
				i--
				break
			}
		}
	}
}

// merge joins pairs of free rectangles that share a full edge until no pair
// remains.
func (p *packer) merge() {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(p.free) && !merged; i++ {
			for j := i + 1; j < len(p.free); j++ {
				if u, ok := mergeRects(p.free[i], p.free[j]); ok {
					p.free[i] = u
					p.free = slices.Delete(p.free, j, j+1)
					merged = true
					break
				}
			}
		}
	}
}

func mergeRects(a, b image.Rectangle) (image.Rectangle, bool) {
	sameColumn := a.Min.X == b.Min.X && a.Max.X == b.Max.X
	sameRow := a.Min.Y == b.Min.Y && a.Max.Y == b.Max.Y
	switch {
	case sameColumn && (a.Max.Y == b.Min.Y || b.Max.Y == a.Min.Y):
		return a.Union(b), true
	case sameRow && (a.Max.X == b.Min.X || b.Max.X == a.Min.X):
		return a.Union(b), true
	}
	return image.Rectangle{}, false
}
