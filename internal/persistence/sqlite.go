package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name:      "sqlite",
	migration: "sqlite.sql",
	insertTrack: func(ctx context.Context, db *sql.DB, name, fileSHA1 string, totalHashes int) (int, error) {
		res, err := db.ExecContext(
			ctx,
			`INSERT INTO tracks(name, file_sha1, total_hashes) VALUES (?,?,?)`,
			name, fileSHA1, totalHashes,
		)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		return int(id), err
	},
}

// NewSQLite opens (or creates) a sqlite-backed index at filePath.
func NewSQLite(filePath string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	return newStore(db, sqliteDialect, logger)
}
