package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteLedger implements Ledger using SQLite for persistence. Usage counts
// survive process restarts, which matters for long windows: an hourly limit
// enforced from memory resets every deploy.
//
// SQLiteLedger uses a write-ahead log (WAL) with periodic checkpointing and
// a single writer connection.
type SQLiteLedger struct {
	db                 *sql.DB
	dbPath             string
	retention          time.Duration
	checkpointInterval time.Duration
	now                func() time.Time

	done      chan struct{}
	mu        sync.RWMutex
	closeOnce sync.Once

	insertStmt     *sql.Stmt
	timestampsStmt *sql.Stmt
	sweepStmt      *sql.Stmt
}

// SQLiteLedgerConfig configures the SQLite ledger.
type SQLiteLedgerConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// Retention is how long records are kept.
	// Default: DefaultRetention (1 hour).
	Retention time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes.
	CheckpointInterval time.Duration

	// Now supplies timestamps. Default: time.Now.
	Now func() time.Time
}

// NewSQLiteLedger creates a SQLite ledger at path with default settings.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	return NewSQLiteLedgerWithConfig(SQLiteLedgerConfig{Path: path})
}

// NewSQLiteLedgerWithConfig creates a SQLite ledger with custom configuration.
func NewSQLiteLedgerWithConfig(cfg SQLiteLedgerConfig) (*SQLiteLedger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Retention == 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	l := &SQLiteLedger{
		db:                 db,
		dbPath:             cfg.Path,
		retention:          cfg.Retention,
		checkpointInterval: cfg.CheckpointInterval,
		now:                cfg.Now,
		done:               make(chan struct{}),
	}

	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := l.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go l.checkpointLoop()

	return l, nil
}

// initSchema creates the database schema if it doesn't exist.
func (l *SQLiteLedger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_entries (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		user_id TEXT NOT NULL,
		ts_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_usage_operation_ts ON usage_entries(operation, ts_ns);
	CREATE INDEX IF NOT EXISTS idx_usage_ts ON usage_entries(ts_ns);
	`

	_, err := l.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (l *SQLiteLedger) prepareStatements() error {
	var err error

	l.insertStmt, err = l.db.Prepare(`
		INSERT INTO usage_entries (id, operation, user_id, ts_ns)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	l.timestampsStmt, err = l.db.Prepare(`
		SELECT ts_ns FROM usage_entries
		WHERE operation = ? AND (? = '' OR user_id = ?) AND ts_ns >= ?
		ORDER BY ts_ns ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare timestamps statement: %w", err)
	}

	l.sweepStmt, err = l.db.Prepare(`
		DELETE FROM usage_entries WHERE ts_ns < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sweep statement: %w", err)
	}

	return nil
}

// Record appends an entry stamped now and evicts entries that have aged out
// of the retention horizon.
func (l *SQLiteLedger) Record(ctx context.Context, operation, userID string) (*Entry, error) {
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
		Timestamp: l.now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.insertStmt.ExecContext(ctx, entry.ID, entry.Operation, entry.UserID, entry.Timestamp.UnixNano()); err != nil {
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	cutoff := entry.Timestamp.Add(-l.retention)
	if _, err := l.sweepStmt.ExecContext(ctx, cutoff.UnixNano()); err != nil {
		return nil, fmt.Errorf("failed to evict aged entries: %w", err)
	}

	return &entry, nil
}

// Timestamps returns the timestamps of entries matching q in ascending order.
func (l *SQLiteLedger) Timestamps(ctx context.Context, q Query) ([]time.Time, error) {
	if q.Operation == "" {
		return nil, fmt.Errorf("operation cannot be empty")
	}

	sinceNs := int64(math.MinInt64)
	if !q.Since.IsZero() {
		sinceNs = q.Since.UnixNano()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.timestampsStmt.QueryContext(ctx, q.Operation, q.UserID, q.UserID, sinceNs)
	if err != nil {
		return nil, fmt.Errorf("failed to query timestamps: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ns int64
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, time.Unix(0, ns))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if q.LastN > 0 && len(out) > q.LastN {
		out = out[len(out)-q.LastN:]
	}

	return out, nil
}

// Sweep removes entries stamped before olderThan.
func (l *SQLiteLedger) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, err := l.sweepStmt.ExecContext(ctx, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(deleted), nil
}

// Close releases the database and stops the checkpoint goroutine.
// Close is idempotent and safe to call multiple times.
func (l *SQLiteLedger) Close() error {
	var closeErr error

	l.closeOnce.Do(func() {
		close(l.done)

		if l.insertStmt != nil {
			l.insertStmt.Close()
		}
		if l.timestampsStmt != nil {
			l.timestampsStmt.Close()
		}
		if l.sweepStmt != nil {
			l.sweepStmt.Close()
		}

		if l.db != nil {
			_, _ = l.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = l.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (l *SQLiteLedger) checkpointLoop() {
	ticker := time.NewTicker(l.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = l.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-l.done:
			return
		}
	}
}
