package pathfinder

// step records one node as reached by a candidate path during a search. The
// previous links form a backward-only tree rooted at the start node; a step's
// predecessor was always created strictly earlier, so the chain cannot cycle.
type step[N Node[N]] struct {
	node     N
	previous *step[N] // nil for first-layer steps reached directly from start

	stepCost float64 // g: accumulated actual cost from the start node
	goalCost float64 // h: heuristic estimate to the goal, fixed at creation

	index int    // position in the frontier heap, -1 once extracted
	seq   uint64 // insertion order, breaks totalCost ties
}

// totalCost is the f-value the frontier orders by.
func (s *step[N]) totalCost() float64 {
	return s.stepCost + s.goalCost
}
