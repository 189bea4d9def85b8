package roadmap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Waypoint is one roadmap vertex, usable directly as a search node: values
// are comparable, and two waypoints are the same vertex exactly when they
// share a roadmap and an id. Neighbor enumeration follows the roadmap's
// sorted adjacency, so routes are deterministic.
type Waypoint struct {
	id int
	rm *Roadmap
}

// ID returns the waypoint's index in its roadmap.
func (w Waypoint) ID() int { return w.id }

// Point returns the waypoint's coordinates.
func (w Waypoint) Point() orb.Point { return w.rm.Points[w.id] }

// ConnectedNodes enumerates the directly linked waypoints.
func (w Waypoint) ConnectedNodes() []Waypoint {
	ids := w.rm.Adjacency[w.id]
	neighbors := make([]Waypoint, len(ids))
	for i, id := range ids {
		neighbors[i] = Waypoint{id: id, rm: w.rm}
	}
	return neighbors
}

// Cost is the planar distance to a neighbor.
func (w Waypoint) Cost(to Waypoint) float64 {
	return planar.Distance(w.Point(), to.Point())
}

// EstimatedCost is the straight-line distance to the goal. It can never
// overestimate the length of a real route, so searches return the cheapest
// one.
func (w Waypoint) EstimatedCost(to Waypoint) float64 {
	return planar.Distance(w.Point(), to.Point())
}
