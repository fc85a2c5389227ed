package cover

// SelectBranchVertex picks the undecided vertex to branch on.
//
// With [SelectMaxCoverage] it returns the undecided vertex with the largest
// gain, lowest id on ties. It reports ok=false when no undecided vertex has a
// positive gain: any edge still open then joins two excluded vertices and the
// node is a dead end.
//
// With [SelectFirstUndecided] it returns the lowest undecided id, and ok=false
// only when nothing is undecided.
func SelectBranchVertex(s *State, sel Selection) (v int, ok bool) {
	if sel == SelectFirstUndecided {
		i, ok := s.undecided.NextSet(0)
		return int(i), ok
	}

	best, bestGain := -1, 0
	for i, ok := s.undecided.NextSet(0); ok; i, ok = s.undecided.NextSet(i + 1) {
		if g := int(s.open[i]); g > bestGain {
			best, bestGain = int(i), g
		}
	}
	return best, best >= 0
}
