package datasource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// ParseOptions configures JSONL parsing.
type ParseOptions struct {
	// WarningHandler receives a message for each skipped malformed line.
	// Nil discards warnings.
	WarningHandler func(msg string)
}

// JSONLReader is an in-memory provider loaded from a JSONL file: one
// record object per line.
type JSONLReader struct {
	records []model.Record
	path    string
}

// NewJSONLReader loads all records from a JSONL file. Malformed lines
// are skipped with a warning rather than failing the whole load.
func NewJSONLReader(path string, opts ParseOptions) (*JSONLReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	records, err := ParseRecords(f, opts)
	if err != nil {
		return nil, err
	}
	return &JSONLReader{records: records, path: path}, nil
}

// ParseRecords reads JSONL records from r. Blank lines are skipped;
// malformed lines are reported to the warning handler and skipped. A
// record with a missing id gets its 1-based position; a missing or
// unknown status is derived from the id.
func ParseRecords(r io.Reader, opts ParseOptions) ([]model.Record, error) {
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(string) {}
	}

	var records []model.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			warn(fmt.Sprintf("line %d: skipping malformed record: %v", lineNo, err))
			continue
		}
		if rec.ID <= 0 {
			rec.ID = len(records) + 1
		}
		if !rec.Status.IsValid() {
			rec.Status = model.StatusFor(rec.ID)
		}
		if rec.Value < 0 {
			warn(fmt.Sprintf("line %d: negative value %d clamped to 0", lineNo, rec.Value))
			rec.Value = 0
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

// Path returns the source file path.
func (j *JSONLReader) Path() string {
	return j.path
}

// Total returns the dataset size.
func (j *JSONLReader) Total() int {
	return len(j.records)
}

// Fetch returns the records in [offset, offset+limit), clamped to the
// dataset bounds.
func (j *JSONLReader) Fetch(ctx context.Context, offset, limit int) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end := clampRange(offset, limit, len(j.records))
	return j.records[start:end], nil
}
