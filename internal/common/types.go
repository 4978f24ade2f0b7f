// Package common provides shared domain types for the application.
package common

import (
	"errors"
	"strings"
)

// ErrTrackNotFound is returned when a track id has no metadata in the index.
var ErrTrackNotFound = errors.New("track not found")

// Fingerprint is one (hash, offset) pair produced by the extraction pipeline.
// Hash is an opaque hex token, Offset is the frame index in the source file.
type Fingerprint struct {
	Hash   string `json:"hash"`
	Offset int    `json:"offset"`
}

// Track is the metadata of a fingerprinted reference file.
type Track struct {
	Id          int
	Name        string
	FileSHA1    string
	TotalHashes int
	// Fingerprinted is set once all of the track's hashes are stored,
	// half-ingested tracks are excluded from matching maintenance.
	Fingerprinted bool
}

// Hit is one stored fingerprint row returned by an index lookup.
type Hit struct {
	Hash    string
	TrackId int
	Offset  int
}

// CanonicalHash normalizes a fingerprint hash for use as an index key.
// Hashes compare case-insensitively everywhere in the system.
func CanonicalHash(h string) string {
	return strings.ToUpper(h)
}
