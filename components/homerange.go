package components

// HomeRange is the set of cells a fox may roam.
// Cells keep their generation order; membership is indexed.
type HomeRange struct {
	cells []Pos
	index map[Pos]struct{}
}

// NewHomeRange builds a home range from a list of cells. Duplicates are dropped.
func NewHomeRange(cells []Pos) HomeRange {
	hr := HomeRange{
		cells: make([]Pos, 0, len(cells)),
		index: make(map[Pos]struct{}, len(cells)),
	}
	for _, c := range cells {
		if _, ok := hr.index[c]; ok {
			continue
		}
		hr.index[c] = struct{}{}
		hr.cells = append(hr.cells, c)
	}
	return hr
}

// Contains reports whether p is in the home range.
func (h HomeRange) Contains(p Pos) bool {
	_, ok := h.index[p]
	return ok
}

// Len returns the number of cells.
func (h HomeRange) Len() int { return len(h.cells) }

// Empty reports whether the home range has no cells.
func (h HomeRange) Empty() bool { return len(h.cells) == 0 }

// Cells returns the cells in generation order. Callers must not modify the slice.
func (h HomeRange) Cells() []Pos { return h.cells }

// Nearest returns the home-range cell closest to p.
// The second result is false when the home range is empty.
func (h HomeRange) Nearest(p Pos) (Pos, bool) {
	if len(h.cells) == 0 {
		return p, false
	}
	best := h.cells[0]
	bestD := p.Dist2(best)
	for _, c := range h.cells[1:] {
		if d := p.Dist2(c); d < bestD {
			best, bestD = c, d
		}
	}
	return best, true
}
