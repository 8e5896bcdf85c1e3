//go:build ignore

// generate_testdata.go creates standard record datasets for manual
// testing and benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/small.jsonl   (100 records)
//	tests/testdata/medium.jsonl  (1000 records)
//	tests/testdata/large.jsonl   (10000 records)
//	tests/testdata/records.db    (10000 records, SQLite)
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/gridview/pkg/testutil"
)

var datasets = []struct {
	name string
	size int
}{
	{"small", 100},
	{"medium", 1000},
	{"large", 10000},
}

func main() {
	outputDir := "tests/testdata"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d records)...\n", ds.name, ds.size)
		path := filepath.Join(outputDir, ds.name+".jsonl")
		if err := writeJSONL(path, ds.size); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	dbPath := filepath.Join(outputDir, "records.db")
	fmt.Printf("Generating SQLite dataset (%d records)...\n", 10000)
	if err := writeSQLite(dbPath, 10000); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dbPath, err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}

func writeJSONL(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range testutil.Records(n) {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeSQLite(path string, n int) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE records (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		value INTEGER NOT NULL,
		status TEXT NOT NULL
	)`); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO records (id, name, value, status) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range testutil.Records(n) {
		if _, err := stmt.Exec(r.ID, r.Name, r.Value, string(r.Status)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
