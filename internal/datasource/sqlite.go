package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// warmPageSize is how many leading records are read eagerly on open so
// the first paint doesn't wait on a query.
const warmPageSize = 512

// SQLiteReader provides read access to a records SQLite database.
type SQLiteReader struct {
	db    *sql.DB
	path  string
	total int
	warm  []model.Record
}

// NewSQLiteReader opens a SQLite database for reading. The database must
// contain a `records` table with id, name, value, and status columns.
// The row count and the first page are read concurrently before the
// reader is returned.
func NewSQLiteReader(ctx context.Context, path string) (*SQLiteReader, error) {
	// Read-only with pragmas tuned for scan-heavy access.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			// Non-fatal; the database still works without tuning.
			continue
		}
	}

	r := &SQLiteReader{db: db, path: path}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		row := db.QueryRowContext(gctx, `SELECT COUNT(*) FROM records`)
		if err := row.Scan(&r.total); err != nil {
			return fmt.Errorf("counting records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		warm, err := r.query(gctx, 0, warmPageSize)
		if err != nil {
			return fmt.Errorf("warming first page: %w", err)
		}
		r.warm = warm
		return nil
	})
	if err := g.Wait(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// Path returns the database file path.
func (r *SQLiteReader) Path() string {
	return r.path
}

// Total returns the record count read at open time.
func (r *SQLiteReader) Total() int {
	return r.total
}

// Fetch returns the records in [offset, offset+limit). Requests covered
// by the warm page are served from memory.
func (r *SQLiteReader) Fetch(ctx context.Context, offset, limit int) ([]model.Record, error) {
	if r.db == nil {
		return nil, ErrClosed
	}
	start, end := clampRange(offset, limit, r.total)
	if start == end {
		return nil, nil
	}
	if end <= len(r.warm) {
		return r.warm[start:end], nil
	}
	return r.query(ctx, start, end-start)
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *SQLiteReader) query(ctx context.Context, offset, limit int) ([]model.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, value, status FROM records ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0, limit)
	for rows.Next() {
		var rec model.Record
		var name, status sql.NullString
		var value sql.NullInt64
		if err := rows.Scan(&rec.ID, &name, &value, &status); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if name.Valid {
			rec.Name = name.String
		}
		if value.Valid && value.Int64 > 0 {
			rec.Value = int(value.Int64)
		}
		rec.Status = model.Status(status.String)
		if !rec.Status.IsValid() {
			rec.Status = model.StatusFor(rec.ID)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
