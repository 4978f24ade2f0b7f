package match

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func contiguous(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestGroupOffsets(t *testing.T) {
	type test struct {
		name    string
		offsets []int
		groups  [][]int
	}

	tests := []test{
		{
			name:    "one small run is discarded",
			offsets: []int{1, 2, 3},
			groups:  nil,
		},
		{
			name:    "exactly min size is discarded",
			offsets: contiguous(1, 10),
			groups:  nil,
		},
		{
			name:    "one offset above min size is kept",
			offsets: contiguous(1, 11),
			groups:  [][]int{contiguous(1, 11)},
		},
		{
			name:    "gap above the threshold splits runs",
			offsets: append(contiguous(0, 20), contiguous(500, 520)...),
			groups:  [][]int{contiguous(0, 20), contiguous(500, 520)},
		},
		{
			name:    "gap at the threshold does not split",
			offsets: append(contiguous(0, 10), contiguous(110, 115)...),
			groups:  [][]int{append(contiguous(0, 10), contiguous(110, 115)...)},
		},
		{
			name:    "unsorted input is sorted first",
			offsets: []int{11, 9, 10, 1, 3, 2, 5, 4, 7, 6, 8, 0},
			groups:  [][]int{contiguous(0, 11)},
		},
		{
			name:    "small runs between big ones are dropped",
			offsets: append(append(contiguous(0, 30), 1000, 1001), contiguous(5000, 5040)...),
			groups:  [][]int{contiguous(0, 30), contiguous(5000, 5040)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.groups, GroupOffsets(tt.offsets, 100, 10))
		})
	}
}

func TestGroupOffsetsProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const maxGap, minSize = 100, 10

	for run := 0; run < 100; run++ {
		offsets := make([]int, 1+r.Intn(1000))
		for i := range offsets {
			offsets[i] = r.Intn(20000)
		}

		groups := GroupOffsets(offsets, maxGap, minSize)

		total := 0
		prevMax := -1 << 62
		for _, g := range groups {
			require.Greater(t, len(g), minSize)
			total += len(g)

			// sorted within the group, gaps bounded
			for i := 1; i < len(g); i++ {
				require.LessOrEqual(t, g[i-1], g[i])
				require.LessOrEqual(t, g[i]-g[i-1], maxGap)
			}
			// groups do not overlap and come in ascending order
			require.Greater(t, g[0], prevMax)
			prevMax = g[len(g)-1]
		}
		require.LessOrEqual(t, total, len(offsets))
	}
}

func TestSeconds(t *testing.T) {
	tuning := DefaultTuning()

	require.Equal(t, 0.0, tuning.Seconds(0))
	// 1 / 44100 * 4096 * 0.5 = 0.046439909..., rounded to 5 decimals
	require.Equal(t, 0.04644, tuning.Seconds(1))
	require.Equal(t, 46.43991, tuning.Seconds(1000))

	// monotonic non-decreasing
	prev := tuning.Seconds(0)
	for offset := 1; offset < 5000; offset += 13 {
		cur := tuning.Seconds(offset)
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestBoundsInSeconds(t *testing.T) {
	tuning := DefaultTuning()

	t.Run("no qualifying group yields the sentinel", func(t *testing.T) {
		require.Equal(t, NoWindow, tuning.BoundsInSeconds([]int{1, 2, 3}))
	})

	t.Run("first qualifying group bounds are converted", func(t *testing.T) {
		offsets := append(contiguous(1000, 1149), contiguous(90000, 90100)...)
		w := tuning.BoundsInSeconds(offsets)
		require.Equal(t, tuning.Seconds(1000), w.Start)
		require.Equal(t, tuning.Seconds(1149), w.End)
		require.LessOrEqual(t, w.Start, w.End)
	})
}
