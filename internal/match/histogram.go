package match

// AlignDeltas finds the dominant alignment window among offset deltas.
// The [min,max] value range is split into consecutive half-open bins of
// binWidth, and the fullest bin wins; ties resolve to the lowest bin.
// It returns the winning window [lower, upper) and its sample count.
// A zero-spread input (all deltas equal) collapses to a single bin.
// deltas must not be empty.
func AlignDeltas(deltas []int, binWidth int) (lower, upper, maxCount int) {
	lo, hi := deltas[0], deltas[0]
	for _, d := range deltas[1:] {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}

	if lo == hi {
		return lo, lo + binWidth, len(deltas)
	}

	bins := make([]int, (hi-lo)/binWidth+1)
	for _, d := range deltas {
		bins[(d-lo)/binWidth]++
	}

	best := 0
	for i, c := range bins {
		if c > bins[best] {
			best = i
		}
	}

	return lo + best*binWidth, lo + (best+1)*binWidth, bins[best]
}
