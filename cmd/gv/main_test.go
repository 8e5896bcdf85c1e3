package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/gridview/internal/datasource"
	"github.com/vanderheijden86/gridview/pkg/config"
	"github.com/vanderheijden86/gridview/pkg/loader"
	"github.com/vanderheijden86/gridview/pkg/view"
)

func newRobotLoader(t *testing.T, total, initial int) *loader.PrefixLoader {
	t.Helper()
	l, err := loader.New(context.Background(), loader.Config{
		Provider:    datasource.NewGenerated(total, datasource.DefaultSeed),
		InitialLoad: initial,
		ChunkSize:   initial,
	})
	if err != nil {
		t.Fatalf("loader.New: %v", err)
	}
	return l
}

func decodeFrame(t *testing.T, buf *bytes.Buffer) robotFrame {
	t.Helper()
	var f robotFrame
	if err := json.Unmarshal(buf.Bytes(), &f); err != nil {
		t.Fatalf("robot output is not valid JSON: %v\n%s", err, buf.String())
	}
	return f
}

func TestRunRobot_WindowGeometry(t *testing.T) {
	l := newRobotLoader(t, 1000, 500)
	cfg := config.DefaultConfig()

	var buf bytes.Buffer
	err := runRobot(&buf, l, cfg, robotOptions{Scroll: 100, Viewport: 20})
	if err != nil {
		t.Fatalf("runRobot: %v", err)
	}

	f := decodeFrame(t, &buf)
	if f.StartIndex != 95 {
		t.Errorf("start_index = %d, want 95", f.StartIndex)
	}
	if f.EndIndex != 125 {
		t.Errorf("end_index = %d, want 125", f.EndIndex)
	}
	if f.TotalHeight != 500 {
		t.Errorf("total_height = %d, want 500", f.TotalHeight)
	}
	if f.RenderOffset != 95 {
		t.Errorf("render_offset = %d, want 95", f.RenderOffset)
	}
	if len(f.Rows) != 30 {
		t.Fatalf("rows = %d, want 30", len(f.Rows))
	}
	if f.Rows[0].ID != 96 {
		t.Errorf("first row id = %d, want 96", f.Rows[0].ID)
	}
	if f.WouldLoad {
		t.Errorf("would_load = true at scroll 100")
	}
}

func TestRunRobot_BottomReportsWouldLoad(t *testing.T) {
	l := newRobotLoader(t, 1000, 500)

	var buf bytes.Buffer
	if err := runRobot(&buf, l, config.DefaultConfig(), robotOptions{Scroll: 9999, Viewport: 20}); err != nil {
		t.Fatalf("runRobot: %v", err)
	}

	f := decodeFrame(t, &buf)
	if f.Scroll != 480 {
		t.Errorf("scroll = %d, want clamp to 480", f.Scroll)
	}
	if !f.WouldLoad {
		t.Errorf("would_load = false at the bottom of a half-loaded set")
	}
	if !f.HasMore {
		t.Errorf("has_more = false with 500 of 1000 loaded")
	}
}

func TestRunRobot_FilterAndSort(t *testing.T) {
	l := newRobotLoader(t, 100, 100)

	var buf bytes.Buffer
	err := runRobot(&buf, l, config.DefaultConfig(), robotOptions{
		Viewport: 10,
		Filter:   "active",
		Sort:     "value:desc",
	})
	if err != nil {
		t.Fatalf("runRobot: %v", err)
	}

	f := decodeFrame(t, &buf)
	if f.Matched != 20 {
		t.Errorf("matched = %d, want 20 active rows out of 100", f.Matched)
	}
	if f.SortKey != "Value" || f.SortDirection != "Descending" {
		t.Errorf("sort = %s/%s, want Value/Descending", f.SortKey, f.SortDirection)
	}
	for _, r := range f.Rows {
		if r.Status != "Active" {
			t.Errorf("row %d status = %s, want Active", r.ID, r.Status)
		}
	}
	for i := 1; i < len(f.Rows); i++ {
		if f.Rows[i].Value > f.Rows[i-1].Value {
			t.Errorf("rows not descending by value at %d", i)
		}
	}
}

func TestRunRobot_RejectsBadSortSpec(t *testing.T) {
	l := newRobotLoader(t, 10, 10)
	var buf bytes.Buffer
	if err := runRobot(&buf, l, config.DefaultConfig(), robotOptions{Sort: "bogus"}); err == nil {
		t.Fatalf("expected error for bogus sort spec")
	}
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		spec    string
		key     view.SortKey
		dir     view.SortDirection
		wantErr bool
	}{
		{"id", view.SortKeyID, view.SortAscending, false},
		{"name:desc", view.SortKeyName, view.SortDescending, false},
		{"value", view.SortKeyValue, view.SortDescending, false},
		{"value:asc", view.SortKeyValue, view.SortAscending, false},
		{"ID:DESC", view.SortKeyID, view.SortDescending, false},
		{"created", 0, 0, true},
		{"id:sideways", 0, 0, true},
	}
	for _, tt := range tests {
		key, dir, _, err := parseSortSpec(tt.spec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseSortSpec(%q) succeeded, want error", tt.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSortSpec(%q): %v", tt.spec, err)
			continue
		}
		if key != tt.key || dir != tt.dir {
			t.Errorf("parseSortSpec(%q) = %v/%v, want %v/%v", tt.spec, key, dir, tt.key, tt.dir)
		}
	}
}

func TestOpenProvider_Dispatch(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.Dataset.TotalRows = 50

	p, closeFn, err := openProvider(ctx, "", cfg, 1, io.Discard)
	if err != nil {
		t.Fatalf("openProvider generated: %v", err)
	}
	defer closeFn()
	if p.Total() != 50 {
		t.Errorf("generated total = %d, want 50", p.Total())
	}

	if _, _, err := openProvider(ctx, "records.csv", cfg, 1, io.Discard); err == nil {
		t.Errorf("expected error for unsupported extension")
	} else if !strings.Contains(err.Error(), "unsupported data file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpenProvider_JSONLWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	data := `{"id":1,"name":"Item 1","value":10,"status":"Active"}
not json
{"id":3,"name":"Item 3","value":30,"status":"Pending"}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write records: %v", err)
	}

	var warnings bytes.Buffer
	p, closeFn, err := openProvider(context.Background(), path, config.DefaultConfig(), 1, &warnings)
	if err != nil {
		t.Fatalf("openProvider jsonl: %v", err)
	}
	defer closeFn()

	if p.Total() != 2 {
		t.Errorf("total = %d, want 2 with the malformed line skipped", p.Total())
	}
	got := warnings.String()
	if !strings.Contains(got, path) || !strings.Contains(got, "line 2") {
		t.Errorf("warning output missing path or line number: %q", got)
	}
}

func TestTitle(t *testing.T) {
	if got := title(""); got != "gv" {
		t.Errorf("title(\"\") = %q", got)
	}
	if got := title("/tmp/records.jsonl"); got != "gv · records.jsonl" {
		t.Errorf("title = %q", got)
	}
}
