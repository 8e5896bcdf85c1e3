package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/gridview/pkg/config"
	"github.com/vanderheijden86/gridview/pkg/grid"
	"github.com/vanderheijden86/gridview/pkg/loader"
	"github.com/vanderheijden86/gridview/pkg/version"
	"github.com/vanderheijden86/gridview/pkg/view"
)

// robotOptions shape the single frame emitted by --robot.
type robotOptions struct {
	// Scroll is the scroll offset in rows.
	Scroll   int
	Viewport int
	Filter   string
	Sort     string
}

type robotRow struct {
	Index  int    `json:"index"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Value  int    `json:"value"`
	Status string `json:"status"`
}

type robotFrame struct {
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`

	TotalAvailable int    `json:"total_available"`
	TotalLoaded    int    `json:"total_loaded"`
	HasMore        bool   `json:"has_more"`
	WouldLoad      bool   `json:"would_load"`
	Matched        int    `json:"matched"`
	Query          string `json:"query,omitempty"`
	SortKey        string `json:"sort_key"`
	SortDirection  string `json:"sort_direction"`

	Scroll       int `json:"scroll"`
	Viewport     int `json:"viewport"`
	RowHeight    int `json:"row_height"`
	Overscan     int `json:"overscan"`
	StartIndex   int `json:"start_index"`
	EndIndex     int `json:"end_index"`
	TotalHeight  int `json:"total_height"`
	RenderOffset int `json:"render_offset"`

	Rows []robotRow `json:"rows"`
}

func writeRobotFrame(w io.Writer, out robotFrame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseSortSpec parses "id", "name:asc", "value:desc" and the like.
func parseSortSpec(spec string) (view.SortKey, view.SortDirection, bool, error) {
	keyPart, dirPart, hasDir := strings.Cut(strings.ToLower(spec), ":")

	var key view.SortKey
	switch keyPart {
	case "id":
		key = view.SortKeyID
	case "name":
		key = view.SortKeyName
	case "value":
		key = view.SortKeyValue
	default:
		return 0, 0, false, fmt.Errorf("invalid sort key %q (expected id|name|value)", keyPart)
	}

	dir := key.DefaultDirection()
	if hasDir {
		switch dirPart {
		case "asc":
			dir = view.SortAscending
		case "desc":
			dir = view.SortDescending
		default:
			return 0, 0, false, fmt.Errorf("invalid sort direction %q (expected asc|desc)", dirPart)
		}
	}
	return key, dir, hasDir, nil
}

// runRobot renders one frame at the requested position and writes it as
// indented JSON. It never starts the chunk fetch it reports via
// would_load; scripted callers drive loading themselves.
func runRobot(w io.Writer, l *loader.PrefixLoader, cfg config.Config, opts robotOptions) error {
	if opts.Viewport <= 0 {
		opts.Viewport = 20
	}
	rowHeight := cfg.Grid.RowHeight
	if rowHeight <= 0 {
		rowHeight = 1
	}

	ctrl := grid.New(l, grid.Config{
		RowHeight:      rowHeight,
		ViewportHeight: opts.Viewport * rowHeight,
		Overscan:       cfg.Grid.Overscan,
	})

	if opts.Sort != "" {
		key, dir, _, err := parseSortSpec(opts.Sort)
		if err != nil {
			return err
		}
		ctrl.OnSortChange(key)
		if ctrl.SortDirection() != dir {
			ctrl.OnSortChange(key)
		}
	}
	if opts.Filter != "" {
		ctrl.OnFilterChange(opts.Filter)
	}
	if opts.Scroll > 0 {
		ctrl.OnScroll(opts.Scroll * rowHeight)
	}

	f := ctrl.Frame()
	rows := make([]robotRow, len(f.Visible))
	for i, r := range f.Visible {
		rows[i] = robotRow{
			Index:  f.StartIndex + i,
			ID:     r.ID,
			Name:   r.Name,
			Value:  r.Value,
			Status: string(r.Status),
		}
	}

	return writeRobotFrame(w, robotFrame{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Version:        version.Version,
		TotalAvailable: f.TotalAvailable,
		TotalLoaded:    f.TotalLoaded,
		HasMore:        f.HasMore,
		WouldLoad:      ctrl.ShouldLoad(),
		Matched:        f.Matched,
		Query:          f.Query,
		SortKey:        f.SortKey.String(),
		SortDirection:  f.SortDirection.String(),
		Scroll:         ctrl.ScrollOffset(),
		Viewport:       opts.Viewport * rowHeight,
		RowHeight:      rowHeight,
		Overscan:       cfg.Grid.Overscan,
		StartIndex:     f.StartIndex,
		EndIndex:       f.StartIndex + len(f.Visible),
		TotalHeight:    f.TotalHeight,
		RenderOffset:   f.RenderOffset,
		Rows:           rows,
	})
}
