package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/gridview/pkg/model"
)

func TestGenerated_Deterministic(t *testing.T) {
	a := NewGenerated(1000, DefaultSeed)
	b := NewGenerated(1000, DefaultSeed)

	ctx := context.Background()
	ra, _ := a.Fetch(ctx, 0, 1000)
	rb, _ := b.Fetch(ctx, 0, 1000)
	for i := range ra {
		if ra[i] != rb[i] {
			t.Fatalf("datasets diverge at %d: %+v != %+v", i, ra[i], rb[i])
		}
	}
}

func TestGenerated_SequentialIDsAndStatuses(t *testing.T) {
	g := NewGenerated(500, DefaultSeed)
	records, err := g.Fetch(context.Background(), 0, 500)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range records {
		if r.ID != i+1 {
			t.Fatalf("record %d has id %d, want %d", i, r.ID, i+1)
		}
		if r.Status != model.StatusFor(r.ID) {
			t.Fatalf("record %d has status %s, want %s", r.ID, r.Status, model.StatusFor(r.ID))
		}
		if r.Value < 0 {
			t.Fatalf("record %d has negative value %d", r.ID, r.Value)
		}
	}
}

func TestGenerated_FetchClampsRange(t *testing.T) {
	g := NewGenerated(100, DefaultSeed)
	ctx := context.Background()

	tests := []struct {
		offset, limit, want int
	}{
		{0, 50, 50},
		{90, 50, 10},
		{100, 10, 0},
		{5000, 10, 0},
		{-5, 10, 10},
		{0, -1, 0},
	}
	for _, tt := range tests {
		got, err := g.Fetch(ctx, tt.offset, tt.limit)
		if err != nil {
			t.Fatalf("Fetch(%d, %d): %v", tt.offset, tt.limit, err)
		}
		if len(got) != tt.want {
			t.Errorf("Fetch(%d, %d) returned %d records, want %d", tt.offset, tt.limit, len(got), tt.want)
		}
	}
}

func TestGenerated_FetchStableIdentity(t *testing.T) {
	g := NewGenerated(200, DefaultSeed)
	ctx := context.Background()
	first, _ := g.Fetch(ctx, 50, 25)
	second, _ := g.Fetch(ctx, 50, 25)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("re-fetch diverged at %d", i)
		}
	}
}

func TestJSONL_ParseRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"id":1,"name":"Item 1","value":10,"status":"Completed"}`,
		``,
		`{"id":2,"name":"Item 2","value":20,"status":"Pending"}`,
		`{broken`,
		`{"name":"No ID","value":5}`,
		`{"id":4,"name":"Bad status","value":7,"status":"open"}`,
	}, "\n")

	var warnings []string
	records, err := ParseRecords(strings.NewReader(input), ParseOptions{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("parsed %d records, want 4", len(records))
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if records[2].ID != 3 {
		t.Errorf("missing id assigned %d, want 3", records[2].ID)
	}
	if records[3].Status != model.StatusFor(4) {
		t.Errorf("invalid status mapped to %s, want %s", records[3].Status, model.StatusFor(4))
	}
}

func newTestDB(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE records (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		value INTEGER NOT NULL,
		status TEXT
	)`); err != nil {
		t.Fatal(err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	stmt, err := tx.Prepare(`INSERT INTO records (id, name, value, status) VALUES (?, ?, ?, ?)`)
	if err != nil {
		t.Fatal(err)
	}
	for id := 1; id <= n; id++ {
		if _, err := stmt.Exec(id, fmt.Sprintf("Item %d", id), id*3%997, string(model.StatusFor(id))); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSQLiteReader_FetchAndTotal(t *testing.T) {
	path := newTestDB(t, 1500)

	ctx := context.Background()
	r, err := NewSQLiteReader(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Total() != 1500 {
		t.Errorf("Total() = %d, want 1500", r.Total())
	}

	// Served from the warm page.
	head, err := r.Fetch(ctx, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(head) != 100 || head[0].ID != 1 || head[99].ID != 100 {
		t.Errorf("head fetch wrong: len=%d first=%d last=%d", len(head), head[0].ID, head[len(head)-1].ID)
	}

	// Past the warm page, hits the database.
	tail, err := r.Fetch(ctx, 1000, 600)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 500 {
		t.Errorf("tail fetch returned %d records, want 500", len(tail))
	}
	if tail[0].ID != 1001 {
		t.Errorf("tail starts at id %d, want 1001", tail[0].ID)
	}
	for _, rec := range tail {
		if rec.Status != model.StatusFor(rec.ID) {
			t.Fatalf("record %d has status %s, want %s", rec.ID, rec.Status, model.StatusFor(rec.ID))
		}
	}
}

func TestSQLiteReader_ClosedFetchFails(t *testing.T) {
	path := newTestDB(t, 10)
	r, err := NewSQLiteReader(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Fetch(context.Background(), 600, 10); err == nil {
		t.Error("Fetch after Close should fail")
	}
}
