// Package window implements the row-windowing math behind gridview's
// virtualized table: given a scroll offset and fixed row geometry, it
// computes the minimal contiguous index range that must be materialized
// and the layout space to reserve for everything else.
//
// All units are abstract geometry units. The terminal UI uses a row
// height of one (one line per record); tests exercise arbitrary heights.
package window

// Params are the inputs to a window computation.
type Params struct {
	// ItemCount is the length of the sequence being windowed.
	ItemCount int
	// RowHeight is the fixed height of a single row, in units. Must be
	// positive for a non-empty window.
	RowHeight int
	// ViewportHeight is the visible height of the container, in units.
	ViewportHeight int
	// ScrollOffset is the distance scrolled from the top, in units.
	// Out-of-range values are tolerated and clamped.
	ScrollOffset int
	// Overscan is the number of extra rows materialized on each side of
	// the strictly visible range to hide blank frames during fast
	// scrolling.
	Overscan int
}

// Window describes which rows to materialize and where to place them.
type Window struct {
	// Start and End bound the half-open index interval [Start, End) of
	// rows that must be rendered. 0 <= Start <= End <= ItemCount always
	// holds.
	Start int
	End   int
	// TotalHeight is ItemCount * RowHeight: the full extent the scroll
	// surface must reserve so the scrollbar reflects the whole dataset.
	TotalHeight int
	// Offset is Start * RowHeight: the vertical translation of the
	// materialized block so its first row lands at its true position.
	Offset int
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Contains reports whether index i falls inside the window.
func (w Window) Contains(i int) bool {
	return w.Start <= i && i < w.End
}

// Compute derives the window for p. It is pure: equal params always
// yield equal windows. Degenerate geometry (non-positive row height or
// item count) collapses to an empty window rather than failing.
func Compute(p Params) Window {
	if p.ItemCount <= 0 || p.RowHeight <= 0 {
		return Window{}
	}

	scroll := p.ScrollOffset
	if scroll < 0 {
		scroll = 0
	}
	viewport := p.ViewportHeight
	if viewport < 0 {
		viewport = 0
	}
	overscan := p.Overscan
	if overscan < 0 {
		overscan = 0
	}

	start := scroll/p.RowHeight - overscan
	if start < 0 {
		start = 0
	}
	// A stale scroll offset (filter shrank the list, viewport resized)
	// can point past the end of the content; clamp so Start never
	// exceeds ItemCount.
	if start > p.ItemCount {
		start = p.ItemCount
	}

	end := ceilDiv(scroll+viewport, p.RowHeight) + overscan
	if end > p.ItemCount {
		end = p.ItemCount
	}
	if end < start {
		end = start
	}

	return Window{
		Start:       start,
		End:         end,
		TotalHeight: p.ItemCount * p.RowHeight,
		Offset:      start * p.RowHeight,
	}
}

// Windower memoizes the most recent computation so repeated queries
// within one update cycle do not redo the math. Not safe for concurrent
// use; the UI event loop is the single caller.
type Windower struct {
	last   Params
	cached Window
	valid  bool

	computes uint64
}

// Compute returns the window for p, reusing the cached result when the
// params match the previous call.
func (w *Windower) Compute(p Params) Window {
	if w.valid && p == w.last {
		return w.cached
	}
	w.last = p
	w.cached = Compute(p)
	w.valid = true
	w.computes++
	return w.cached
}

// Computes returns how many times the underlying math actually ran.
func (w *Windower) Computes() uint64 {
	return w.computes
}

// Invalidate drops the cached result.
func (w *Windower) Invalidate() {
	w.valid = false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
