package exposure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"arbiter-hq/arbiter/pkg/assign"
)

// JournalConfig contains configuration for the SQLite exposure journal.
type JournalConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultJournalConfig returns the default journal configuration.
func DefaultJournalConfig() *JournalConfig {
	return &JournalConfig{
		Path:         "data/exposures.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Filter selects exposure events for Query, Count, and Delete.
// The zero value matches everything.
type Filter struct {
	// ExperimentID filters by experiment.
	ExperimentID string

	// VariantID filters by assigned variant.
	VariantID string

	// UserID filters by user.
	UserID string

	// Since is an inclusive lower bound on the recorded time.
	Since *time.Time

	// Until is an inclusive upper bound on the recorded time.
	Until *time.Time

	// Limit caps the number of returned events. Query only; default 100.
	Limit int

	// Offset skips events for pagination. Query only.
	Offset int
}

// Journal is a durable exposure sink backed by a local SQLite database.
// It buffers events for the host to drain; it does not transport them.
type Journal struct {
	db     *sql.DB
	config *JournalConfig
	logger *slog.Logger
}

// NewJournal creates a new SQLite exposure journal.
// It initializes the database schema and enables WAL mode if configured.
func NewJournal(config *JournalConfig) (*Journal, error) {
	if config == nil {
		config = DefaultJournalConfig()
	}

	logger := slog.Default().With("component", "exposure.journal")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewSinkError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	j := &Journal{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("exposure journal initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return j, nil
}

// initialize sets up the database schema and enables WAL mode.
func (j *Journal) initialize() error {
	if j.config.WALMode {
		_, err := j.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return NewSinkError("sqlite", "enable_wal", err)
		}
		j.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := j.config.BusyTimeout.Milliseconds()
	_, err := j.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return NewSinkError("sqlite", "set_busy_timeout", err)
	}

	_, err = j.db.Exec(Schema)
	if err != nil {
		return NewSinkError("sqlite", "create_schema", err)
	}

	_, err = j.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return NewSinkError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = j.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewSinkError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return NewSinkError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Record persists a single exposure event.
func (j *Journal) Record(ctx context.Context, event assign.ExposureEvent) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO exposures (id, experiment_id, variant_id, user_id, recorded_at) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.ExperimentID, event.VariantID, event.UserID, event.Timestamp,
	)
	if err != nil {
		return NewSinkError("sqlite", "record", err)
	}

	return nil
}

// Query retrieves exposure events matching the filter, oldest first.
func (j *Journal) Query(ctx context.Context, filter *Filter) ([]assign.ExposureEvent, error) {
	if filter == nil {
		filter = &Filter{}
	}

	whereClause, args := j.buildWhereClause(filter)

	sqlQuery := "SELECT id, experiment_id, variant_id, user_id, recorded_at FROM exposures"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY recorded_at ASC"

	limit := 100
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if filter.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := j.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewSinkError("sqlite", "query", err)
	}
	defer rows.Close()

	events := []assign.ExposureEvent{}
	for rows.Next() {
		var event assign.ExposureEvent
		if err := rows.Scan(&event.ID, &event.ExperimentID, &event.VariantID, &event.UserID, &event.Timestamp); err != nil {
			return nil, NewSinkError("sqlite", "scan", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, NewSinkError("sqlite", "query", err)
	}

	return events, nil
}

// Count returns the number of exposure events matching the filter.
// Limit and Offset are ignored.
func (j *Journal) Count(ctx context.Context, filter *Filter) (int64, error) {
	if filter == nil {
		filter = &Filter{}
	}

	whereClause, args := j.buildWhereClause(filter)

	sqlQuery := "SELECT COUNT(*) FROM exposures"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	err := j.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return 0, NewSinkError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes exposure events matching the filter and returns the number
// of events deleted. Limit and Offset are ignored.
func (j *Journal) Delete(ctx context.Context, filter *Filter) (int64, error) {
	if filter == nil {
		filter = &Filter{}
	}

	whereClause, args := j.buildWhereClause(filter)

	sqlQuery := "DELETE FROM exposures"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := j.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, NewSinkError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewSinkError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the journal.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return NewSinkError("sqlite", "close", err)
	}

	j.logger.Info("exposure journal closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from filter fields.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func (j *Journal) buildWhereClause(filter *Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ExperimentID != "" {
		conditions = append(conditions, "experiment_id = ?")
		args = append(args, filter.ExperimentID)
	}
	if filter.VariantID != "" {
		conditions = append(conditions, "variant_id = ?")
		args = append(args, filter.VariantID)
	}
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, *filter.Until)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}
