package ledger

import (
	"context"
	"errors"
	"time"
)

// DefaultRetention bounds how long usage records are kept. No sliding window
// longer than this can be answered accurately.
const DefaultRetention = time.Hour

// ErrClosed is returned by operations on a closed ledger.
var ErrClosed = errors.New("ledger is closed")

// Entry is one recorded operation usage. Entries are immutable once written.
type Entry struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Query selects entries for a timestamp scan.
type Query struct {
	// Operation is required and matches exactly.
	Operation string

	// UserID narrows the scan to one user. Empty matches every user.
	UserID string

	// Since excludes entries stamped before it. The zero time applies no
	// lower bound.
	Since time.Time

	// LastN, when positive, keeps only the most recent N entries after the
	// other filters are applied.
	LastN int
}

// Ledger stores timestamped usage records.
//
// Implementations are safe for concurrent use and hold their locks only for
// the duration of a single call.
type Ledger interface {
	// Record appends an entry stamped now and opportunistically evicts
	// entries older than the retention horizon.
	Record(ctx context.Context, operation, userID string) (*Entry, error)

	// Timestamps returns the timestamps of entries matching q in ascending
	// order.
	Timestamps(ctx context.Context, q Query) ([]time.Time, error)

	// Sweep removes entries stamped before olderThan and returns how many
	// were removed.
	Sweep(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases resources. Close is idempotent.
	Close() error
}
