package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
	"go.uber.org/zap"
)

var duckdbDialect = dialect{
	name:      "duckdb",
	migration: "duckdb.sql",
	insertTrack: func(ctx context.Context, db *sql.DB, name, fileSHA1 string, totalHashes int) (int, error) {
		// duckdb has no autoincrement, ids come from a sequence
		var id int
		if err := db.QueryRowContext(ctx, `SELECT nextval('track_ids')`).Scan(&id); err != nil {
			return 0, err
		}
		_, err := db.ExecContext(
			ctx,
			`INSERT INTO tracks(id, name, file_sha1, total_hashes) VALUES (?,?,?,?)`,
			id, name, fileSHA1, totalHashes,
		)
		return id, err
	},
}

// NewDuckDB opens (or creates) a duckdb-backed index at filePath.
// maxMemMb caps the instance's memory when positive.
func NewDuckDB(filePath string, maxMemMb int, logger *zap.Logger) (*Store, error) {
	c, err := duckdb.NewConnector(filePath, nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize new connector: %w", err)
	}
	db := sql.OpenDB(c)

	if maxMemMb > 0 {
		if _, err = db.Exec(fmt.Sprintf("SET max_memory='%dMB'", maxMemMb)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set max memory: %w", err)
		}
	}

	return newStore(db, duckdbDialect, logger)
}
