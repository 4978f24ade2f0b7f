// Package persistence stores fingerprints and track metadata in an embedded
// SQL database. One implementation covers both supported backends (sqlite,
// duckdb), the few statements that differ live in a per-backend dialect.
package persistence

import (
	"context"

	"trackmatch/internal/common"
)

// Index is the keyed fingerprint storage. The matching core only consumes
// Lookup and TrackByID; the rest is maintenance used by the console.
type Index interface {
	// Lookup returns every stored row whose hash is in hashes.
	// Hashes are stored canonicalized, callers pass canonical hashes.
	Lookup(ctx context.Context, hashes []string) ([]common.Hit, error)
	// TrackByID returns common.ErrTrackNotFound for unknown ids.
	TrackByID(ctx context.Context, id int) (common.Track, error)

	// PutTrack registers a track and returns its new id.
	PutTrack(ctx context.Context, name, fileSHA1 string, totalHashes int) (int, error)
	// PutFingerprints stores the track's fingerprints in batches of batchSize.
	// Duplicate (hash, track, offset) rows are ignored.
	PutFingerprints(ctx context.Context, trackId int, fps []common.Fingerprint, batchSize int) error
	// SetTrackFingerprinted marks a track as fully ingested.
	SetTrackFingerprinted(ctx context.Context, trackId int) error

	Tracks(ctx context.Context) ([]common.Track, error)
	DeleteTracks(ctx context.Context, ids []int) error
	// DeleteUnfingerprinted removes half-ingested tracks and their rows.
	DeleteUnfingerprinted(ctx context.Context) error

	CountTracks(ctx context.Context) (int, error)
	CountFingerprints(ctx context.Context) (int, error)

	// Empty wipes all stored tracks and fingerprints.
	Empty(ctx context.Context) error
	Close() error
}
