package match

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"trackmatch/internal/common"
)

// Index is the slice of the storage surface the matching core needs.
type Index interface {
	// Lookup returns every stored row whose hash is in hashes (exact match).
	Lookup(ctx context.Context, hashes []string) ([]common.Hit, error)
	// TrackByID returns common.ErrTrackNotFound for unknown ids.
	TrackByID(ctx context.Context, id int) (common.Track, error)
}

// TrackDelta is one raw alignment sample: a stored fingerprint of a track
// matched a query fingerprint at the given offset difference.
type TrackDelta struct {
	TrackId int
	Delta   int // stored offset minus query offset
}

// Samples holds one track's alignment samples. Stored and Query grow in
// lockstep: index i of both slices belongs to the same sample, and
// Stored[i]-Query[i] is that sample's delta. Breaking this alignment
// corrupts the whole match, so the two slices are never shared or swapped.
type Samples struct {
	Stored []int // offsets in the reference track
	Query  []int // offsets in the queried excerpt
}

// Accumulate resolves the query fingerprints against the index in batches of
// at most batchSize distinct hashes and aggregates alignment samples per
// track. counts holds the raw number of stored rows seen per track (a hash
// stored several times counts each time). Batches are independent, so up to
// concurrency lookups run at once; per-track state is merged under one lock.
// A failed lookup fails the whole call, no partial results are returned.
func Accumulate(
	ctx context.Context,
	idx Index,
	query []common.Fingerprint,
	batchSize int,
	concurrency int,
) (deltas []TrackDelta, counts map[int]int, samples map[int]*Samples, err error) {
	if batchSize < 1 {
		return nil, nil, nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	// hash -> query offsets at which it occurs, keys canonicalized
	offsetsByHash := make(map[string][]int, len(query))
	for _, fp := range query {
		h := common.CanonicalHash(fp.Hash)
		offsetsByHash[h] = append(offsetsByHash[h], fp.Offset)
	}
	hashes := slices.Sorted(maps.Keys(offsetsByHash))

	counts = make(map[int]int)
	samples = make(map[int]*Samples)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for batch := range slices.Chunk(hashes, batchSize) {
		g.Go(func() error {
			hits, err := idx.Lookup(ctx, batch)
			if err != nil {
				return fmt.Errorf("lookup batch of %d hashes: %w", len(batch), err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, hit := range hits {
				counts[hit.TrackId]++
				s := samples[hit.TrackId]
				if s == nil {
					s = &Samples{}
					samples[hit.TrackId] = s
				}
				for _, queryOffset := range offsetsByHash[common.CanonicalHash(hit.Hash)] {
					s.Stored = append(s.Stored, hit.Offset)
					s.Query = append(s.Query, queryOffset)
					deltas = append(deltas, TrackDelta{TrackId: hit.TrackId, Delta: hit.Offset - queryOffset})
				}
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return deltas, counts, samples, nil
}
