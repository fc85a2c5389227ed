package cover

import "github.com/bits-and-blooms/bitset"

// prune reports whether no completion of s can beat best. It is only called
// on nodes that are not yet covers, so at least one more vertex is needed.
func prune(s *State, bound Bound, best int, scratch *bitset.BitSet) bool {
	switch bound {
	case BoundLoose:
		return s.nIncluded >= best
	case BoundMatching:
		if s.nIncluded+1 >= best {
			return true
		}
		return s.nIncluded+matchingBound(s, best-s.nIncluded, scratch) >= best
	default:
		return s.nIncluded+1 >= best
	}
}

// matchingBound returns the size of a greedy maximal matching over the open
// edges, stopping early once it reaches limit. Each matched edge needs its own
// station in any completion.
func matchingBound(s *State, limit int, matched *bitset.BitSet) int {
	matched.ClearAll()
	size := 0
	for v := 0; v < len(s.open) && size < limit; v++ {
		if s.open[v] == 0 || matched.Test(uint(v)) {
			continue
		}
		for _, w := range s.g.Neighbors(v) {
			if s.included.Test(uint(w)) || matched.Test(uint(w)) {
				continue
			}
			matched.Set(uint(v))
			matched.Set(uint(w))
			size++
			break
		}
	}
	return size
}
