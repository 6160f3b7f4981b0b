package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			media_path TEXT NOT NULL DEFAULT '',
			record_path TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			ended_at INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at DESC);

		-- Append-only: rows are inserted, never updated.
		CREATE TABLE IF NOT EXISTS engagement_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			timestamp INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			video_time TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_engagement_events_session ON engagement_events(session_id, id);

		CREATE TABLE IF NOT EXISTS gaze_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			samples INTEGER NOT NULL,
			lost INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			stopped_at INTEGER NOT NULL,
			data_path TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_gaze_runs_session ON gaze_runs(session_id);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
