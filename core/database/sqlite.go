package database

import (
	"fmt"
	"strings"

	"sportmeet/core/logger"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database for local runs and tests. The pool is
// pinned to one connection so transactions are serialized and in-memory
// databases survive between queries.
func OpenSQLite(dsn string) (Database, error) {
	dsn = withTimeFormat(dsn)
	sqlxDB, err := sqlx.Connect(DriverSQLite, dsn)
	if err != nil {
		return Database{}, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlxDB.SetMaxOpenConns(1)
	sqlxDB.SetMaxIdleConns(1)
	sqlxDB.SetConnMaxLifetime(0)

	if _, err := sqlxDB.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = sqlxDB.Close()
		return Database{}, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	logger.Info("Database initialized successfully", "driver", DriverSQLite, "dsn", dsn)
	return Database{sqlx: sqlxDB, driver: DriverSQLite}, nil
}

// withTimeFormat stores timestamps as "2006-01-02 15:04:05.999999999-07:00" so
// that UTC values compare and sort correctly as text.
func withTimeFormat(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_time_format=sqlite"
	}
	return dsn + "?_time_format=sqlite"
}
