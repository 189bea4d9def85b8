package geo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// LoadZones reads every *.geojson file in dir and collects the Polygon and
// MultiPolygon features as restricted zones. Other geometry types are
// ignored.
func LoadZones(dir string) ([]orb.Polygon, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	var zones []orb.Polygon
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read zone file %s: %w", file, err)
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse zone file %s: %w", file, err)
		}

		for _, feature := range fc.Features {
			switch g := feature.Geometry.(type) {
			case orb.Polygon:
				zones = append(zones, g)
			case orb.MultiPolygon:
				zones = append(zones, g...)
			}
		}
	}

	return zones, nil
}

// SimplifyZones runs Douglas-Peucker over each zone with the given threshold
// (degrees). A zone whose outer ring would collapse below a triangle keeps
// its original shape.
func SimplifyZones(zones []orb.Polygon, threshold float64) []orb.Polygon {
	simplifier := simplify.DouglasPeucker(threshold)

	out := make([]orb.Polygon, len(zones))
	for i, zone := range zones {
		reduced := simplifier.Polygon(zone.Clone())
		if len(reduced) == 0 || len(reduced[0]) < 4 { // closed triangle = 4 points
			out[i] = zone
			continue
		}
		out[i] = reduced
	}
	return out
}

// DropContainedZones removes zones fully contained within another zone; the
// containing zone already forbids the same area. Containment is a bounding
// box pre-check followed by testing every outer-ring vertex.
func DropContainedZones(zones []orb.Polygon) []orb.Polygon {
	if len(zones) <= 1 {
		return zones
	}

	contained := make([]bool, len(zones))
	for i := range zones {
		if contained[i] {
			continue
		}
		for j := range zones {
			if i == j || contained[j] {
				continue
			}
			if zoneContainedIn(zones[i], zones[j]) {
				contained[i] = true
				break
			}
			if zoneContainedIn(zones[j], zones[i]) {
				contained[j] = true
			}
		}
	}

	out := make([]orb.Polygon, 0, len(zones))
	for i, zone := range zones {
		if !contained[i] {
			out = append(out, zone)
		}
	}
	return out
}

// zoneContainedIn reports whether every outer-ring vertex of a lies inside b.
func zoneContainedIn(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aBound, bBound := a.Bound(), b.Bound()
	if !boundContains(bBound, aBound) {
		return false
	}
	for _, vertex := range a[0] {
		if !planar.PolygonContains(b, vertex) {
			return false
		}
	}
	return true
}

func boundContains(outer, inner orb.Bound) bool {
	return inner.Min.X() >= outer.Min.X() && inner.Max.X() <= outer.Max.X() &&
		inner.Min.Y() >= outer.Min.Y() && inner.Max.Y() <= outer.Max.Y()
}
