package match

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignDeltas(t *testing.T) {
	type test struct {
		name                   string
		deltas                 []int
		binWidth               int
		lower, upper, maxCount int
	}

	tests := []test{
		{
			name:     "single sample collapses to one bin",
			deltas:   []int{42},
			binWidth: 5,
			lower:    42, upper: 47, maxCount: 1,
		},
		{
			name:     "zero spread collapses to one bin",
			deltas:   []int{1000, 1000, 1000},
			binWidth: 5,
			lower:    1000, upper: 1005, maxCount: 3,
		},
		{
			name:     "dominant bin wins",
			deltas:   []int{0, 1, 2, 3, 50, 51, 52, 53, 54, 90},
			binWidth: 5,
			lower:    50, upper: 55, maxCount: 5,
		},
		{
			name:     "tie resolves to the lowest bin",
			deltas:   []int{0, 1, 10, 11, 20},
			binWidth: 5,
			lower:    0, upper: 5, maxCount: 2,
		},
		{
			name:     "negative deltas",
			deltas:   []int{-200, -199, -198, -100, 300},
			binWidth: 5,
			lower:    -200, upper: -195, maxCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper, maxCount := AlignDeltas(tt.deltas, tt.binWidth)
			require.Equal(t, tt.lower, lower)
			require.Equal(t, tt.upper, upper)
			require.Equal(t, tt.maxCount, maxCount)
		})
	}
}

// AlignDeltas must agree with brute-force binning over the same half-open
// bins, including the lowest-bin tie-break.
func TestAlignDeltasMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 1 + r.Intn(500)
		deltas := make([]int, n)
		for i := range deltas {
			deltas[i] = r.Intn(4000) - 2000
		}
		binWidth := 1 + r.Intn(20)

		lower, upper, maxCount := AlignDeltas(deltas, binWidth)
		require.Equal(t, lower+binWidth, upper)

		lo, hi := deltas[0], deltas[0]
		for _, d := range deltas {
			lo = min(lo, d)
			hi = max(hi, d)
		}
		bestLower, bestCount := lo, 0
		for binLo := lo; binLo <= hi; binLo += binWidth {
			count := 0
			for _, d := range deltas {
				if d >= binLo && d < binLo+binWidth {
					count++
				}
			}
			if count > bestCount {
				bestLower, bestCount = binLo, count
			}
		}

		require.Equal(t, bestCount, maxCount, "run %d: deltas %v width %d", run, deltas, binWidth)
		require.Equal(t, bestLower, lower, "run %d: deltas %v width %d", run, deltas, binWidth)
	}
}
