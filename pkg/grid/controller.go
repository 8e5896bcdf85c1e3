// Package grid wires the loaded record prefix, the sort/filter
// pipeline, and the windowing engine into the single controller the
// presentation layer talks to. The controller owns all mutable view
// state (scroll offset, sort key and direction, committed filter) and
// mutates it only through its On* transition points; derived state is
// recomputed on demand through memoized pure functions, so a frame is
// always consistent with the inputs that produced it.
//
// The controller is single-threaded by contract: every method runs on
// the UI event loop. The one concession to background work is the
// loader's begin/fetch/commit split, which lets the slow chunk fetch
// run as a command while the event loop keeps rendering frames against
// the current prefix.
package grid

import (
	"context"

	"github.com/vanderheijden86/gridview/pkg/loader"
	"github.com/vanderheijden86/gridview/pkg/model"
	"github.com/vanderheijden86/gridview/pkg/view"
	"github.com/vanderheijden86/gridview/pkg/window"
)

// Config configures the controller's geometry.
type Config struct {
	// RowHeight is the height of one row in geometry units. The
	// terminal UI uses 1.
	RowHeight int
	// ViewportHeight is the visible height in the same units.
	ViewportHeight int
	// Overscan is the number of extra rows materialized beyond the
	// visible range on each side.
	Overscan int
}

// Frame is the outbound surface handed to the presentation layer: the
// visible slice plus the geometry and status needed to place it.
type Frame struct {
	// Visible is the materialized run of the view sequence.
	Visible []model.Record
	// StartIndex is Visible[0]'s index within the view sequence.
	StartIndex int
	// TotalHeight is the full scroll extent of the view sequence.
	TotalHeight int
	// RenderOffset is the translation that places Visible at its true
	// scroll position.
	RenderOffset int

	IsLoading      bool
	HasMore        bool
	TotalLoaded    int
	TotalAvailable int
	// Matched is the view sequence length after filtering.
	Matched int

	SortKey       view.SortKey
	SortDirection view.SortDirection
	Query         string
	// Err is the last load error, nil unless a retry is pending.
	Err error
}

// Controller owns the view state for one record grid.
type Controller struct {
	loader   *loader.PrefixLoader
	pipeline view.Pipeline
	windower window.Windower

	key   view.SortKey
	dir   view.SortDirection
	query string

	rowHeight      int
	viewportHeight int
	overscan       int
	scroll         int
}

// New builds a controller over an already-initialized loader.
func New(l *loader.PrefixLoader, cfg Config) *Controller {
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = 1
	}
	if cfg.Overscan < 0 {
		cfg.Overscan = 0
	}
	return &Controller{
		loader:         l,
		key:            view.SortKeyID,
		dir:            view.SortKeyID.DefaultDirection(),
		rowHeight:      cfg.RowHeight,
		viewportHeight: cfg.ViewportHeight,
		overscan:       cfg.Overscan,
	}
}

// SetViewportHeight updates the visible height, clamping the scroll
// offset into the new range.
func (c *Controller) SetViewportHeight(h int) {
	if h < 0 {
		h = 0
	}
	c.viewportHeight = h
	c.OnScroll(c.scroll)
}

// ViewportHeight returns the current visible height.
func (c *Controller) ViewportHeight() int {
	return c.viewportHeight
}

// RowHeight returns the configured row height.
func (c *Controller) RowHeight() int {
	return c.rowHeight
}

// OnScroll sets the scroll offset, clamped to the content bounds of
// the current view sequence.
func (c *Controller) OnScroll(offset int) {
	if offset < 0 {
		offset = 0
	}
	max := len(c.sequence())*c.rowHeight - c.viewportHeight
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	c.scroll = offset
}

// ScrollBy moves the scroll offset by delta units.
func (c *Controller) ScrollBy(delta int) {
	c.OnScroll(c.scroll + delta)
}

// ScrollOffset returns the current scroll offset.
func (c *Controller) ScrollOffset() int {
	return c.scroll
}

// OnFilterChange commits a new (already debounced) filter query. A
// changed query resets the scroll offset so the window can never point
// past the shrunken sequence.
func (c *Controller) OnFilterChange(text string) {
	if text == c.query {
		return
	}
	c.query = text
	c.scroll = 0
}

// Query returns the committed filter query.
func (c *Controller) Query() string {
	return c.query
}

// OnSortChange selects the sort column: picking the current column
// toggles the direction, picking a new one applies its natural default.
// Either way the scroll offset resets, matching the filter behavior.
func (c *Controller) OnSortChange(key view.SortKey) {
	if key == c.key {
		c.dir = c.dir.Toggle()
	} else {
		c.key = key
		c.dir = key.DefaultDirection()
	}
	c.scroll = 0
}

// SortKey returns the active sort column.
func (c *Controller) SortKey() view.SortKey {
	return c.key
}

// SortDirection returns the active sort direction.
func (c *Controller) SortDirection() view.SortDirection {
	return c.dir
}

// sequence derives (or reuses) the sorted, filtered view sequence.
func (c *Controller) sequence() []model.Record {
	return c.pipeline.Derive(c.loader.Records(), c.key, c.dir, c.query)
}

// Window computes the current window descriptor over the view sequence.
func (c *Controller) Window() window.Window {
	return c.windower.Compute(window.Params{
		ItemCount:      len(c.sequence()),
		RowHeight:      c.rowHeight,
		ViewportHeight: c.viewportHeight,
		ScrollOffset:   c.scroll,
		Overscan:       c.overscan,
	})
}

// Frame assembles the outbound state for the presentation layer.
func (c *Controller) Frame() Frame {
	seq := c.sequence()
	w := c.Window()
	return Frame{
		Visible:        seq[w.Start:w.End],
		StartIndex:     w.Start,
		TotalHeight:    w.TotalHeight,
		RenderOffset:   w.Offset,
		IsLoading:      c.loader.Loading(),
		HasMore:        c.loader.HasMore(),
		TotalLoaded:    c.loader.Loaded(),
		TotalAvailable: c.loader.Total(),
		Matched:        len(seq),
		SortKey:        c.key,
		SortDirection:  c.dir,
		Query:          c.query,
		Err:            c.loader.Err(),
	}
}

// ShouldLoad reports whether the infinite-scroll trigger has fired:
// the scroll position is within two viewport heights of the bottom of
// the full content, more records remain, and no load is in flight.
// Filtering does not suppress the trigger; a narrow filter match still
// pulls more data in so matches beyond the prefix can appear.
func (c *Controller) ShouldLoad() bool {
	if c.loader.State() != loader.StateIdle {
		return false
	}
	if !c.loader.HasMore() {
		return false
	}
	totalHeight := len(c.sequence()) * c.rowHeight
	return c.scroll+c.viewportHeight >= totalHeight-2*c.viewportHeight
}

// RequestLoad claims the next chunk load and returns the fetch to run
// off the event loop. ok is false when a load is already in flight or
// nothing remains, in which case fetch is nil.
func (c *Controller) RequestLoad() (fetch func(context.Context) ([]model.Record, error), ok bool) {
	if !c.loader.TryBegin() {
		return nil, false
	}
	return c.loader.Fetch, true
}

// CommitLoad applies a fetched chunk back on the event loop.
func (c *Controller) CommitLoad(chunk []model.Record) error {
	return c.loader.Commit(chunk)
}

// FailLoad records a fetch failure; the loader stays retryable.
func (c *Controller) FailLoad(err error) {
	c.loader.Fail(err)
}

// RetryLoad re-arms a failed loader; it is a no-op in other states.
func (c *Controller) RetryLoad() (fetch func(context.Context) ([]model.Record, error), ok bool) {
	if c.loader.State() != loader.StateFailed {
		return nil, false
	}
	return c.RequestLoad()
}

// SwapLoader replaces the backing loader wholesale (live reload of the
// data file). Derived state is invalidated and the scroll resets.
func (c *Controller) SwapLoader(l *loader.PrefixLoader) {
	c.loader = l
	c.pipeline.Invalidate()
	c.windower.Invalidate()
	c.scroll = 0
}

// Loader exposes the backing loader, primarily for status displays.
func (c *Controller) Loader() *loader.PrefixLoader {
	return c.loader
}
