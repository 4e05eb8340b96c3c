// Package sqlite
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"xtra-telemetry/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

var migrations = []struct {
	name  string
	query string
}{
	{
		name: "users",
		query: `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);`,
	},
	{
		name: "current_samples",
		query: `
		CREATE TABLE IF NOT EXISTS current_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			current_ma INTEGER NOT NULL,
			charging INTEGER NOT NULL DEFAULT 0,
			recorded_at INTEGER NOT NULL
		);`,
	},
}

func NewSqliteDB(dbPath string, log logger.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}

	// one process owns the file; a small pool is enough
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info("sqlite connection established successfully", "path", dbPath)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m.query); err != nil {
			return fmt.Errorf("failed to migrate %s table: %w", m.name, err)
		}
	}
	return nil
}
