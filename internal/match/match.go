package match

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"trackmatch/internal/common"
)

// Result is one confirmed reuse finding.
type Result struct {
	TrackId int
	// Track is zero-valued when the metadata row vanished mid-operation.
	Track common.Track
	// Winning delta window [BinLower, BinUpper) and how many samples it holds.
	BinLower int
	BinUpper int
	Aligned  int
	// Matched segment in the reference track and in the queried excerpt.
	Reference TimeWindow
	Query     TimeWindow
}

// Report is the full outcome of one matching operation.
type Report struct {
	// Deltas and Counts are the raw accumulation products, kept for
	// callers that want to inspect or re-score candidates themselves.
	Deltas  []TrackDelta
	Counts  map[int]int
	Results []Result
	Found   bool
}

// Matcher runs matching operations against one index.
// It is stateless between calls, every operation owns fresh accumulators.
type Matcher struct {
	idx         Index
	tuning      Tuning
	batchSize   int
	concurrency int
	logger      *zap.Logger
}

func NewMatcher(idx Index, tuning Tuning, batchSize, concurrency int, logger *zap.Logger) *Matcher {
	return &Matcher{
		idx:         idx,
		tuning:      tuning,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      logger,
	}
}

// FindReuse locates the stored tracks the queried excerpt was taken from.
// A track is confirmed when its dominant delta bin holds more than
// Tuning.MinPeakCount samples; for confirmed tracks the samples are filtered
// to the winning bin and both time segments are derived from the survivors.
// An empty query is not an error, it yields an empty report.
func (m *Matcher) FindReuse(ctx context.Context, query []common.Fingerprint) (Report, error) {
	deltas, counts, samples, err := Accumulate(ctx, m.idx, query, m.batchSize, m.concurrency)
	if err != nil {
		return Report{}, fmt.Errorf("accumulate matches: %w", err)
	}
	m.logger.Debug(
		"accumulated raw matches",
		zap.Int("queryHashes", len(query)),
		zap.Int("candidateTracks", len(samples)),
		zap.Int("samples", len(deltas)),
	)

	report := Report{Deltas: deltas, Counts: counts}

	for _, id := range slices.Sorted(maps.Keys(samples)) {
		s := samples[id]
		if len(s.Stored) == 0 {
			// a row whose hash matched no query offset leaves no samples
			continue
		}
		sampleDeltas := make([]int, len(s.Stored))
		for i := range s.Stored {
			sampleDeltas[i] = s.Stored[i] - s.Query[i]
		}

		lower, upper, peak := AlignDeltas(sampleDeltas, m.tuning.BinWidth)
		if peak <= m.tuning.MinPeakCount {
			continue
		}

		// keep only the samples aligned with the winning bin
		var stored, queried []int
		for i, d := range sampleDeltas {
			if d >= lower && d < upper {
				stored = append(stored, s.Stored[i])
				queried = append(queried, s.Query[i])
			}
		}

		res := Result{
			TrackId:   id,
			BinLower:  lower,
			BinUpper:  upper,
			Aligned:   len(stored),
			Reference: m.tuning.BoundsInSeconds(stored),
			Query:     m.tuning.BoundsInSeconds(queried),
		}

		track, terr := m.idx.TrackByID(ctx, id)
		switch {
		case errors.Is(terr, common.ErrTrackNotFound):
			// the alignment is still real, report it without metadata
			m.logger.Warn("confirmed track has no metadata", zap.Int("track", id))
		case terr != nil:
			return Report{}, fmt.Errorf("track %d metadata: %w", id, terr)
		default:
			res.Track = track
		}

		report.Results = append(report.Results, res)
	}

	report.Found = len(report.Results) > 0
	return report, nil
}
