// Package loader maintains the loaded prefix of a record dataset: a
// contiguous, monotonically growing head of the provider's full
// sequence, grown one chunk at a time.
//
// The loader is a small state machine driven entirely from the UI event
// loop. A load is split into three steps so the slow part can run as a
// background command: TryBegin claims the load and captures the fetch
// range, Fetch performs the (possibly slow) provider read without
// touching loader state, and Commit or Fail applies the outcome back on
// the event loop. With that discipline there is a single writer and no
// locking.
package loader

import (
	"context"
	"errors"
	"time"

	"github.com/vanderheijden86/gridview/internal/datasource"
	"github.com/vanderheijden86/gridview/pkg/model"
)

// State is the loader's position in its lifecycle.
type State int

const (
	// StateIdle means more records remain and no load is in flight.
	StateIdle State = iota
	// StateLoading means a chunk fetch is in flight.
	StateLoading
	// StateFailed means the last fetch errored; a retry is allowed.
	StateFailed
	// StateExhausted means the whole dataset is loaded.
	StateExhausted
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Errors callers can branch on.
var (
	ErrNoProvider = errors.New("loader: no provider configured")
	ErrNotLoading = errors.New("loader: no load in flight")
)

// Config configures a PrefixLoader.
type Config struct {
	// Provider supplies the records. Required.
	Provider datasource.Provider
	// InitialLoad is how many records to load synchronously at
	// construction time.
	InitialLoad int
	// ChunkSize is how many records each subsequent load appends.
	ChunkSize int
	// Delay is the simulated fetch latency applied inside Fetch. Zero
	// means no delay, which is what tests want.
	Delay time.Duration
}

// PrefixLoader owns the loaded prefix and the load state machine.
type PrefixLoader struct {
	provider  datasource.Provider
	chunkSize int
	delay     time.Duration

	records []model.Record
	state   State
	lastErr error

	// Fetch range captured at TryBegin so the in-flight fetch never
	// reads mutable loader state.
	pendingOffset int
	pendingLimit  int
}

// New builds a PrefixLoader and synchronously loads the initial prefix.
func New(ctx context.Context, cfg Config) (*PrefixLoader, error) {
	if cfg.Provider == nil {
		return nil, ErrNoProvider
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.InitialLoad < 0 {
		cfg.InitialLoad = 0
	}

	l := &PrefixLoader{
		provider:  cfg.Provider,
		chunkSize: cfg.ChunkSize,
		delay:     cfg.Delay,
	}

	if cfg.InitialLoad > 0 {
		initial, err := cfg.Provider.Fetch(ctx, 0, cfg.InitialLoad)
		if err != nil {
			return nil, err
		}
		// The prefix grows in place, so it needs its own backing array;
		// providers may hand out slices aliasing their dataset.
		l.records = make([]model.Record, len(initial))
		copy(l.records, initial)
	}

	if len(l.records) >= cfg.Provider.Total() {
		l.state = StateExhausted
	} else {
		l.state = StateIdle
	}
	return l, nil
}

// TryBegin claims the next load. It returns false when a load is
// already in flight or the dataset is exhausted, making duplicate
// requests a silent no-op. A failed loader may begin again (retry).
func (l *PrefixLoader) TryBegin() bool {
	if l.state != StateIdle && l.state != StateFailed {
		return false
	}
	remaining := l.provider.Total() - len(l.records)
	if remaining <= 0 {
		l.state = StateExhausted
		return false
	}
	limit := l.chunkSize
	if limit > remaining {
		limit = remaining
	}
	l.pendingOffset = len(l.records)
	l.pendingLimit = limit
	l.state = StateLoading
	return true
}

// Fetch performs the claimed chunk read, applying the configured
// simulated latency first. It only reads immutable configuration and
// the range captured by TryBegin, so it is safe to run off the event
// loop while the UI keeps reading loader state.
func (l *PrefixLoader) Fetch(ctx context.Context) ([]model.Record, error) {
	if l.delay > 0 {
		timer := time.NewTimer(l.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return l.provider.Fetch(ctx, l.pendingOffset, l.pendingLimit)
}

// Commit appends a fetched chunk to the prefix and settles the state:
// Exhausted when the prefix has reached the provider's total or the
// chunk came back short, Idle otherwise.
func (l *PrefixLoader) Commit(chunk []model.Record) error {
	if l.state != StateLoading {
		return ErrNotLoading
	}
	l.records = append(l.records, chunk...)
	l.lastErr = nil
	if len(l.records) >= l.provider.Total() || len(chunk) < l.pendingLimit {
		l.state = StateExhausted
	} else {
		l.state = StateIdle
	}
	return nil
}

// Fail records a fetch error and moves to StateFailed without touching
// the loaded prefix, so a retry starts from the same offset.
func (l *PrefixLoader) Fail(err error) {
	if l.state != StateLoading {
		return
	}
	l.lastErr = err
	l.state = StateFailed
}

// Records returns the loaded prefix. Callers must treat it as
// read-only.
func (l *PrefixLoader) Records() []model.Record {
	return l.records
}

// Loaded returns the length of the loaded prefix.
func (l *PrefixLoader) Loaded() int {
	return len(l.records)
}

// Total returns the provider's full dataset size.
func (l *PrefixLoader) Total() int {
	return l.provider.Total()
}

// HasMore reports whether unloaded records remain.
func (l *PrefixLoader) HasMore() bool {
	return len(l.records) < l.provider.Total()
}

// State returns the current loader state.
func (l *PrefixLoader) State() State {
	return l.state
}

// Loading reports whether a chunk fetch is in flight.
func (l *PrefixLoader) Loading() bool {
	return l.state == StateLoading
}

// Err returns the error from the most recent failed fetch, or nil.
func (l *PrefixLoader) Err() error {
	return l.lastErr
}
