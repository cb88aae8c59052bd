package database

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// DB is the shared database connection.
var DB *sqlx.DB

// Config selects the storage backend. Driver is "sqlite3" or "postgres"; DSN is
// the file path for SQLite or the connection string for Postgres.
type Config struct {
	Driver string
	DSN    string
}

// Connect establishes the database connection and bootstraps the schema.
func Connect(cfg Config) error {
	switch cfg.Driver {
	case "sqlite3":
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return errors.Wrap(err, "create data directory")
		}
	case "postgres":
	default:
		return errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}

	if cfg.Driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return errors.Wrap(err, "enable foreign keys")
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates the tables if they don't exist.
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			id ` + serial + `,
			parent_id BIGINT,
			name TEXT NOT NULL UNIQUE,
			system_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS masteries (
			id ` + serial + `,
			user_id BIGINT NOT NULL,
			topic_id BIGINT NOT NULL,
			mastery_score REAL NOT NULL DEFAULT 0,
			last_reviewed_at TIMESTAMP,
			review_count INTEGER NOT NULL DEFAULT 0,
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, topic_id)
		)`,
		`CREATE TABLE IF NOT EXISTS study_plan_logs (
			id ` + serial + `,
			plan_id TEXT NOT NULL,
			user_id BIGINT NOT NULL,
			plan_json TEXT NOT NULL,
			requested_minutes INTEGER NOT NULL,
			allocated_minutes INTEGER NOT NULL,
			generated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plan_subscriptions (
			user_id BIGINT PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			notify_hour INTEGER NOT NULL DEFAULT 9,
			plan_minutes INTEGER NOT NULL DEFAULT 120,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return errors.Wrap(err, "initialize schema")
		}
	}
	return nil
}
