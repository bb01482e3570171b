package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/leaguefolio/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the sqlite database and ensures the snapshot tables exist.
// The core engine is pure in-memory; everything here serves downstream
// reporting and audit consumers.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database tables", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database tables for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS rollup_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		season INTEGER NOT NULL,
		week INTEGER NOT NULL,
		participant TEXT NOT NULL,
		scope TEXT NOT NULL,
		payload TEXT NOT NULL,
		sync_run_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(season, week, participant, scope)
	);

	CREATE TABLE IF NOT EXISTS ledger_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL UNIQUE,
		season INTEGER NOT NULL,
		week INTEGER NOT NULL,
		commissioner BOOLEAN DEFAULT FALSE,
		kinds TEXT NOT NULL,
		payload TEXT NOT NULL,
		sync_run_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		season INTEGER NOT NULL,
		through_week INTEGER NOT NULL,
		processed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		reversed_pairs INTEGER NOT NULL,
		started_at TIMESTAMP,
		finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
