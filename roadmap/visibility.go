package roadmap

import (
	"github.com/paulmach/orb"

	"pathfinder/geo"
)

// maxVisibilityVertices caps the quadratic edge pass; beyond it the zone set
// must be simplified first (geo.SimplifyZones, geo.DropContainedZones).
const maxVisibilityVertices = 1000

// Visibility builds a line-of-sight roadmap for a single route: the vertices
// are the start point, the end point and every zone corner, and two vertices
// are linked when the segment between them stays clear of every zone. The
// shortest obstacle-avoiding route threads such corners, so searching this
// roadmap yields it.
//
// When the zones carry more than maxVisibilityVertices corners the roadmap
// degenerates to the direct start-end edge, present only if it is clear.
func Visibility(start, end orb.Point, zones []orb.Polygon) (startW, endW Waypoint) {
	rm := &Roadmap{
		Points: []orb.Point{start, end},
	}

	seen := map[orb.Point]bool{start: true, end: true}
	for _, zone := range zones {
		for _, ring := range zone {
			n := len(ring)
			if ring.Closed() {
				n-- // skip the duplicated closing vertex
			}
			for i := 0; i < n; i++ {
				if seen[ring[i]] {
					continue
				}
				seen[ring[i]] = true
				rm.Points = append(rm.Points, ring[i])
			}
		}
	}

	rm.Adjacency = make([][]int, len(rm.Points))

	if len(rm.Points) > maxVisibilityVertices {
		rm.Points = rm.Points[:2]
		rm.Adjacency = make([][]int, 2)
		if geo.PathClear(start, end, zones) {
			rm.Adjacency[0] = []int{1}
			rm.Adjacency[1] = []int{0}
		}
		return Waypoint{id: 0, rm: rm}, Waypoint{id: 1, rm: rm}
	}

	for i := 0; i < len(rm.Points); i++ {
		for j := i + 1; j < len(rm.Points); j++ {
			if !geo.PathClear(rm.Points[i], rm.Points[j], zones) {
				continue
			}
			rm.Adjacency[i] = append(rm.Adjacency[i], j)
			rm.Adjacency[j] = append(rm.Adjacency[j], i)
		}
	}

	return Waypoint{id: 0, rm: rm}, Waypoint{id: 1, rm: rm}
}
