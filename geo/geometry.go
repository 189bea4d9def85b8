// Package geo holds the planar geometry the planner needs: line-of-sight
// clearance against restricted zones, zone loading and simplification, and a
// spatial index over zones. Coordinates are lon/lat degrees in orb types;
// clearance tests are planar, distances in meters are haversine.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Segment is a straight line between two points.
type Segment struct {
	A, B orb.Point
}

// SegmentsIntersect reports whether two segments properly cross. Segments
// that merely share an endpoint do not count as intersecting: visibility
// edges start and end on zone vertices, and those contacts are legal.
func SegmentsIntersect(s1, s2 Segment) bool {
	p1, p2 := s1.A, s1.B
	p3, p4 := s2.A, s2.B

	if (p1 == p3 && p2 == p4) || (p1 == p4 && p2 == p3) {
		return false
	}
	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear contacts
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// cross is the z-component of (p2-p1) x (p3-p1).
func cross(p1, p2, p3 orb.Point) float64 {
	return (p3.X()-p1.X())*(p2.Y()-p1.Y()) - (p2.X()-p1.X())*(p3.Y()-p1.Y())
}

// onSegment assumes q is collinear with p-r and checks it lies between them.
func onSegment(p, r, q orb.Point) bool {
	return q.X() <= math.Max(p.X(), r.X()) && q.X() >= math.Min(p.X(), r.X()) &&
		q.Y() <= math.Max(p.Y(), r.Y()) && q.Y() >= math.Min(p.Y(), r.Y())
}

// SegmentIntersectsPolygon reports whether a segment crosses any edge of any
// ring of the polygon.
func SegmentIntersectsPolygon(seg Segment, polygon orb.Polygon) bool {
	for _, ring := range polygon {
		n := len(ring)
		if n < 2 {
			continue
		}
		edges := n
		if ring.Closed() {
			edges = n - 1
		}
		for i := 0; i < edges; i++ {
			edge := Segment{A: ring[i], B: ring[(i+1)%n]}
			if SegmentsIntersect(seg, edge) {
				return true
			}
		}
	}
	return false
}

// PointInsideZone reports whether a point lies strictly inside a zone.
// Points on the boundary are outside: zone corners are legal path vertices
// and clearance tests must not treat them as contained.
func PointInsideZone(p orb.Point, zone orb.Polygon) bool {
	for _, ring := range zone {
		if pointOnRing(p, ring) {
			return false
		}
	}
	return planar.PolygonContains(zone, p)
}

func pointOnRing(p orb.Point, ring orb.Ring) bool {
	n := len(ring)
	if n < 2 {
		return false
	}
	edges := n
	if ring.Closed() {
		edges = n - 1
	}
	for i := 0; i < edges; i++ {
		a, b := ring[i], ring[(i+1)%n]
		if cross(a, b, p) == 0 && onSegment(a, b, p) {
			return true
		}
	}
	return false
}

// PathClear reports whether the straight line between two points avoids every
// zone: it must not cross a zone boundary, and neither endpoint nor the
// midpoint may sit inside a zone. The midpoint test catches the
// corner-to-corner case, where a segment's endpoints sit on the boundary and
// the shared-endpoint exclusion hides the crossing.
func PathClear(a, b orb.Point, zones []orb.Polygon) bool {
	seg := Segment{A: a, B: b}
	mid := orb.Point{(a.X() + b.X()) / 2, (a.Y() + b.Y()) / 2}

	for _, zone := range zones {
		if SegmentIntersectsPolygon(seg, zone) {
			return false
		}
		if PointInsideZone(a, zone) || PointInsideZone(b, zone) {
			return false
		}
		if PointInsideZone(mid, zone) {
			return false
		}
	}
	return true
}

// PathLengthMeters sums the haversine distance along a sequence of lon/lat
// waypoints.
func PathLengthMeters(points []orb.Point) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += orbgeo.DistanceHaversine(points[i], points[i+1])
	}
	return total
}
