package match

import "slices"

// TimeWindow is a start/end pair in seconds.
type TimeWindow struct {
	Start float64
	End   float64
}

// NoWindow marks the absence of a qualifying segment.
var NoWindow = TimeWindow{Start: -1, End: -1}

// GroupOffsets sorts offsets and splits them into maximal runs whose
// consecutive gaps stay within maxGap, keeping only runs strictly longer
// than minSize, in ascending order. The input slice is not modified.
// offsets must not be empty.
func GroupOffsets(offsets []int, maxGap, minSize int) [][]int {
	sorted := slices.Clone(offsets)
	slices.Sort(sorted)

	var groups [][]int
	cur := []int{sorted[0]}
	for _, o := range sorted[1:] {
		if o-cur[len(cur)-1] <= maxGap {
			cur = append(cur, o)
			continue
		}
		groups = append(groups, cur)
		cur = []int{o}
	}
	groups = append(groups, cur)

	kept := groups[:0]
	for _, g := range groups {
		if len(g) > minSize {
			kept = append(kept, g)
		}
	}
	return kept
}

// BoundsInSeconds converts the first qualifying segment of offsets into a
// seconds window, or NoWindow when no segment qualifies.
// offsets must not be empty.
func (t Tuning) BoundsInSeconds(offsets []int) TimeWindow {
	groups := GroupOffsets(offsets, t.MaxGap, t.MinGroupSize)
	if len(groups) == 0 {
		return NoWindow
	}
	g := groups[0]
	return TimeWindow{Start: t.Seconds(g[0]), End: t.Seconds(g[len(g)-1])}
}
