package exposure

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the exposure journal schema.
const Schema = `
-- Exposure events table
CREATE TABLE IF NOT EXISTS exposures (
    id TEXT PRIMARY KEY,
    experiment_id TEXT NOT NULL,
    variant_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_exposures_recorded_at ON exposures(recorded_at);
CREATE INDEX IF NOT EXISTS idx_exposures_experiment ON exposures(experiment_id);
CREATE INDEX IF NOT EXISTS idx_exposures_user ON exposures(user_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
