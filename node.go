package pathfinder

// Node is the capability contract a graph node type must satisfy to be
// searchable. Identity comes from the comparable embedding: two values that
// compare equal are the same node for frontier and closed-set bookkeeping, so
// the type must carry whatever reference (an id, a pointer to its graph) makes
// that true.
//
// ConnectedNodes enumerates the node's direct neighbors, without duplicates.
// The engine only ever reads connectivity; editing a graph (adding or removing
// edges, toggling an edge bidirectional) is deliberately not part of this
// contract.
//
// Cost returns the actual cost of traversing the edge to a neighbor. Costs
// must be non-negative and may be asymmetric. EstimatedCost returns a
// heuristic estimate of the remaining distance to a goal; keep it admissible
// (never overestimating the true remaining cost) or the returned path is still
// valid but may not be the cheapest. The engine verifies neither property.
//
// Search results are deterministic relative to the order ConnectedNodes
// returns: between equal-cost candidates the earlier-discovered one wins, so a
// type wanting reproducible paths should enumerate neighbors in a stable
// order.
type Node[N comparable] interface {
	comparable
	ConnectedNodes() []N
	Cost(to N) float64
	EstimatedCost(to N) float64
}
