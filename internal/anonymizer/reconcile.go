package anonymizer

import "sort"

// reconcile collapses a possibly overlapping candidate set into the spans
// to act on. Only redundancy is pruned: when one span's range is a subset
// of another's, the one with the strictly lower score is dropped, and on a
// score tie the one that sorts later. Partial overlaps, where neither
// range is a subset of the other, are deliberately kept; ambiguous but
// distinct detections are a downstream concern, not a redundancy.
//
// Pruning runs to a fixed point, so a span contained only in an already
// dropped span is re-judged against the real survivors. The result never
// contains a pair where one is inside the other. Never fails; empty in,
// empty out.
func reconcile(spans []Span) []Span {
	survivors := make([]Span, len(spans))
	copy(survivors, spans)

	// Total order: start ascending, then score descending, then longer
	// spans first. Ties beyond that keep input order.
	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Len() > b.Len()
	})

	for {
		loser := findContainedLoser(survivors)
		if loser < 0 {
			return survivors
		}
		survivors = append(survivors[:loser], survivors[loser+1:]...)
	}
}

// findContainedLoser scans for any pair where one span contains the other
// and returns the index to drop: the strictly lower score, or on a tie the
// later element in the total order. Returns -1 at the fixed point.
func findContainedLoser(spans []Span) int {
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if !a.containedIn(b) && !b.containedIn(a) {
				continue
			}
			if a.Score < b.Score {
				return i
			}
			return j
		}
	}
	return -1
}
