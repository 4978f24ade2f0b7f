// Package match implements the alignment engine: it resolves query
// fingerprints against the stored index in batches, finds the dominant
// stored-minus-query offset per candidate track via a delta histogram,
// and converts the aligned offset runs into time segments.
package match

import "math"

// Tuning groups every constant of the matching pipeline.
// The DSP constants must match the extractor that produced the offsets,
// otherwise converted seconds are numerically valid but meaningless.
type Tuning struct {
	// BinWidth is the delta histogram bin width.
	BinWidth int
	// MaxGap is the largest distance between consecutive offsets
	// still considered part of the same segment.
	MaxGap int
	// MinGroupSize: segments of this many offsets or fewer are discarded.
	MinGroupSize int
	// MinPeakCount: a track is confirmed when its best histogram bin
	// holds more than this many aligned samples.
	MinPeakCount int

	// Extraction scheme constants, shared with the fingerprint extractor.
	SampleRate   int
	WindowSize   int
	OverlapRatio float64
}

func DefaultTuning() Tuning {
	return Tuning{
		BinWidth:     5,
		MaxGap:       100,
		MinGroupSize: 10,
		MinPeakCount: 100,
		SampleRate:   44100,
		WindowSize:   4096,
		OverlapRatio: 0.5,
	}
}

// Seconds converts a frame offset into elapsed seconds, rounded to 5 decimals.
func (t Tuning) Seconds(offset int) float64 {
	sec := float64(offset) / float64(t.SampleRate) * float64(t.WindowSize) * t.OverlapRatio
	return math.Round(sec*1e5) / 1e5
}
