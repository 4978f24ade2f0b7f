package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"trackmatch/internal/common"
)

//go:embed migrations
var migrationFS embed.FS

// deleteBatch caps the IN-list length of batched deletions.
const deleteBatch = 1000

// dialect carries the statements that differ between backends.
type dialect struct {
	name      string
	migration string // file under migrations/
	// insertTrack hides the id-generation difference (autoincrement vs sequence)
	insertTrack func(ctx context.Context, db *sql.DB, name, fileSHA1 string, totalHashes int) (int, error)
}

// Store implements Index over database/sql for one dialect.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func newStore(db *sql.DB, d dialect, logger *zap.Logger) (*Store, error) {
	s := &Store{db: db, dialect: d, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s migrate: %w", d.name, err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	f, err := migrationFS.Open("migrations/" + s.dialect.migration)
	if err != nil {
		return err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(string(content))
	return err
}

func (s *Store) Lookup(ctx context.Context, hashes []string) (hits []common.Hit, err error) {
	if len(hashes) == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(
		`SELECT hash, track_id, "offset" FROM fingerprints WHERE hash IN (%s)`,
		placeholders(len(hashes)),
	)
	rows, err := s.db.QueryContext(ctx, q, asAny(hashes)...)
	if err != nil {
		return nil, fmt.Errorf("lookup fingerprints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h common.Hit
		if err = rows.Scan(&h.Hash, &h.TrackId, &h.Offset); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) TrackByID(ctx context.Context, id int) (t common.Track, err error) {
	err = s.db.QueryRowContext(
		ctx,
		`SELECT id, name, file_sha1, total_hashes, fingerprinted FROM tracks WHERE id = ?`,
		id,
	).Scan(&t.Id, &t.Name, &t.FileSHA1, &t.TotalHashes, &t.Fingerprinted)
	if errors.Is(err, sql.ErrNoRows) {
		return t, common.ErrTrackNotFound
	}
	return t, err
}

func (s *Store) PutTrack(ctx context.Context, name, fileSHA1 string, totalHashes int) (int, error) {
	id, err := s.dialect.insertTrack(ctx, s.db, name, fileSHA1, totalHashes)
	if err != nil {
		return 0, fmt.Errorf("insert track: %w", err)
	}
	return id, nil
}

func (s *Store) PutFingerprints(ctx context.Context, trackId int, fps []common.Fingerprint, batchSize int) error {
	if batchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	for batch := range slices.Chunk(fps, batchSize) {
		q := fmt.Sprintf(
			`INSERT OR IGNORE INTO fingerprints(hash, track_id, "offset") VALUES %s`,
			strings.TrimRight(strings.Repeat("(?,?,?),", len(batch)), ","),
		)
		args := make([]any, 0, 3*len(batch))
		for _, fp := range batch {
			args = append(args, common.CanonicalHash(fp.Hash), trackId, fp.Offset)
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert fingerprints: %w", err)
		}
	}
	s.logger.Debug("fingerprints stored", zap.Int("track", trackId), zap.Int("rows", len(fps)))
	return nil
}

func (s *Store) SetTrackFingerprinted(ctx context.Context, trackId int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE tracks SET fingerprinted = true WHERE id = ?`, trackId)
	return err
}

func (s *Store) Tracks(ctx context.Context) (tracks []common.Track, err error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, name, file_sha1, total_hashes, fingerprinted FROM tracks WHERE fingerprinted = true ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t common.Track
		if err = rows.Scan(&t.Id, &t.Name, &t.FileSHA1, &t.TotalHashes, &t.Fingerprinted); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func (s *Store) DeleteTracks(ctx context.Context, ids []int) error {
	for batch := range slices.Chunk(ids, deleteBatch) {
		in := placeholders(len(batch))
		args := asAny(batch)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM fingerprints WHERE track_id IN (%s)", in), args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete fingerprints: %w", err)
		}
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM tracks WHERE id IN (%s)", in), args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete tracks: %w", err)
		}
		if err = tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteUnfingerprinted(ctx context.Context) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM fingerprints WHERE track_id IN (SELECT id FROM tracks WHERE fingerprinted = false)`,
	)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM tracks WHERE fingerprinted = false`)
	return err
}

func (s *Store) CountTracks(ctx context.Context) (n int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks WHERE fingerprinted = true`).Scan(&n)
	return
}

func (s *Store) CountFingerprints(ctx context.Context) (n int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fingerprints`).Scan(&n)
	return
}

func (s *Store) Empty(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fingerprints`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM tracks`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

func placeholders(n int) string {
	return strings.TrimRight(strings.Repeat("?,", n), ",")
}

func asAny[T any](vals []T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
