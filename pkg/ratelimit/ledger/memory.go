package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger implements Ledger with an in-process slice. This is the
// default ledger: fast, no persistence, all data lost on process exit.
//
// MemoryLedger is thread-safe; one mutex guards the entry slice.
type MemoryLedger struct {
	mu      sync.Mutex
	entries []Entry
	closed  bool

	retention       time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	now             func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// MemoryLedgerConfig configures a MemoryLedger.
type MemoryLedgerConfig struct {
	// Retention is how long records are kept.
	// Default: DefaultRetention (1 hour).
	Retention time.Duration

	// MaxEntries caps the ledger size; the oldest entries are evicted first.
	// Default: 100,000.
	MaxEntries int

	// CleanupInterval is how often the background sweep runs.
	// Default: 1 minute.
	CleanupInterval time.Duration

	// Now supplies timestamps. Default: time.Now. Tests inject a fake clock
	// here to exercise long windows without sleeping.
	Now func() time.Time
}

// NewMemoryLedger creates an in-memory ledger with default settings.
func NewMemoryLedger() *MemoryLedger {
	return NewMemoryLedgerWithConfig(MemoryLedgerConfig{})
}

// NewMemoryLedgerWithConfig creates an in-memory ledger with custom
// configuration.
func NewMemoryLedgerWithConfig(cfg MemoryLedgerConfig) *MemoryLedger {
	if cfg.Retention == 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = 100000
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m := &MemoryLedger{
		retention:       cfg.Retention,
		maxEntries:      cfg.MaxEntries,
		cleanupInterval: cfg.CleanupInterval,
		now:             cfg.Now,
		done:            make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Record appends an entry stamped now and evicts entries that have aged out
// of the retention horizon.
func (m *MemoryLedger) Record(ctx context.Context, operation, userID string) (*Entry, error) {
	if operation == "" {
		return nil, fmt.Errorf("operation cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Operation: operation,
		UserID:    userID,
		Timestamp: m.now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	m.entries = append(m.entries, entry)
	m.evictLocked(entry.Timestamp.Add(-m.retention))

	if over := len(m.entries) - m.maxEntries; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}

	return &entry, nil
}

// Timestamps returns the timestamps of entries matching q in ascending order.
func (m *MemoryLedger) Timestamps(ctx context.Context, q Query) ([]time.Time, error) {
	if q.Operation == "" {
		return nil, fmt.Errorf("operation cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	var out []time.Time
	for _, e := range m.entries {
		if e.Operation != q.Operation {
			continue
		}
		if q.UserID != "" && e.UserID != q.UserID {
			continue
		}
		if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
			continue
		}
		out = append(out, e.Timestamp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	if q.LastN > 0 && len(out) > q.LastN {
		out = out[len(out)-q.LastN:]
	}

	return out, nil
}

// Sweep removes entries stamped before olderThan.
func (m *MemoryLedger) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	return m.evictLocked(olderThan), nil
}

// Size returns the current number of stored entries.
// This is useful for monitoring and testing.
func (m *MemoryLedger) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close stops the background sweep and marks the ledger closed. Close is
// idempotent.
func (m *MemoryLedger) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	return nil
}

// evictLocked removes entries stamped before cutoff and returns how many
// were removed. Caller must hold the mutex.
func (m *MemoryLedger) evictLocked(cutoff time.Time) int {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(m.entries) - len(kept)
	m.entries = kept
	return removed
}

// cleanupLoop runs periodic sweeps of aged-out entries.
func (m *MemoryLedger) cleanupLoop() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := m.now().Add(-m.retention)
			_, _ = m.Sweep(context.Background(), cutoff)
		case <-m.done:
			return
		}
	}
}
