package geo

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// rectMinSize keeps degenerate bounds (points, axis-aligned segments)
// acceptable to the R-tree, which rejects zero-length sides.
const rectMinSize = 1e-9

// zoneEntry wraps a zone polygon for R-tree storage.
type zoneEntry struct {
	polygon orb.Polygon
	rect    rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *zoneEntry) Bounds() rtreego.Rect {
	return e.rect
}

// ZoneIndex answers which restricted zones could touch a region, so
// clearance checks only test nearby polygons instead of every zone.
type ZoneIndex struct {
	tree *rtreego.Rtree
}

// NewZoneIndex builds an index over the given zones. Zones whose bounding
// box cannot be represented are skipped.
func NewZoneIndex(zones []orb.Polygon) *ZoneIndex {
	tree := rtreego.NewTree(2, 25, 50)

	for _, zone := range zones {
		if len(zone) == 0 || len(zone[0]) == 0 {
			continue
		}
		rect, err := boundToRect(zone.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&zoneEntry{polygon: zone, rect: rect})
	}

	return &ZoneIndex{tree: tree}
}

// Query returns the zones whose bounding box intersects the given bound.
func (idx *ZoneIndex) Query(bound orb.Bound) []orb.Polygon {
	rect, err := boundToRect(bound)
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(rect)
	zones := make([]orb.Polygon, 0, len(results))
	for _, item := range results {
		zones = append(zones, item.(*zoneEntry).polygon)
	}
	return zones
}

// SegmentClear reports whether the straight line between two points avoids
// every indexed zone. Only zones near the segment's bounding box are tested.
func (idx *ZoneIndex) SegmentClear(a, b orb.Point) bool {
	return PathClear(a, b, idx.Query(segmentBound(a, b)))
}

// PointClear reports whether a point lies outside every indexed zone.
func (idx *ZoneIndex) PointClear(p orb.Point) bool {
	return PathClear(p, p, idx.Query(segmentBound(p, p)))
}

func segmentBound(a, b orb.Point) orb.Bound {
	bound := orb.Bound{Min: a, Max: a}
	return bound.Extend(b)
}

func boundToRect(bound orb.Bound) (rtreego.Rect, error) {
	lengths := []float64{
		bound.Max.X() - bound.Min.X(),
		bound.Max.Y() - bound.Min.Y(),
	}
	for i, l := range lengths {
		if l < rectMinSize {
			lengths[i] = rectMinSize
		}
	}
	return rtreego.NewRect(rtreego.Point{bound.Min.X(), bound.Min.Y()}, lengths)
}
