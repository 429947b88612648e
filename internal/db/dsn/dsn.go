// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/applytrack/applytrack/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(&cfg.DB)
	case config.EngineSQLite:
		return SQLite(&cfg.DB)
	default:
		return MySQL(&cfg.DB)
	}
}

// MySQL builds a go-sql-driver/mysql DSN, Extras is appended as query string.
func MySQL(db *config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a pgx keyword/value DSN, Extras holds additional space separated keywords.
func Postgres(db *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		db.Host,
		db.Port,
		db.User,
		db.Password,
		db.Name,
	)

	if extras := strings.TrimSpace(db.Extras); extras != "" {
		out += " " + extras
	}

	return out
}

// SQLite returns the database file name, ":memory:" when none is configured.
func SQLite(db *config.DB) string {
	if db.Name == "" {
		return ":memory:"
	}

	if db.Extras != "" {
		return db.Name + "?" + db.Extras
	}

	return db.Name
}
