// Package pathfinder implements generic best-first (A*) search over any graph
// whose node type can enumerate its neighbors, price an edge traversal, and
// estimate its remaining distance to a goal.
//
// The caller supplies a type satisfying the Node contract; FindPath then
// returns the cheapest start-to-goal sequence of that type. The engine holds
// no global state and a call touches nothing outside its own frontier, so
// concurrent searches over the same (unchanging) graph are safe.
package pathfinder
