package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zoneFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]
			}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[2,2],[3,2],[3,3],[2,3],[2,2]]],
					[[[5,5],[6,5],[6,6],[5,6],[5,5]]]
				]
			}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "Point", "coordinates": [9, 9]}
		}
	]
}`

func TestLoadZones(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones.geojson"), []byte(zoneFixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	zones, err := LoadZones(dir)
	require.NoError(t, err)
	assert.Len(t, zones, 3, "one Polygon plus two MultiPolygon members; Point ignored")
}

func TestLoadZonesBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.geojson"), []byte("{nope"), 0644))

	_, err := LoadZones(dir)
	assert.Error(t, err)
}

func TestLoadZonesEmptyDir(t *testing.T) {
	zones, err := LoadZones(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestSimplifyZonesDropsCollinearVertex(t *testing.T) {
	// Unit square with a redundant vertex on the bottom edge.
	zone := orb.Polygon{orb.Ring{
		{0, 0}, {0.5, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}}

	out := SimplifyZones([]orb.Polygon{zone}, 0.01)
	require.Len(t, out, 1)
	assert.Len(t, out[0][0], 5, "collinear vertex should be removed")

	// The input polygon must not be mutated.
	assert.Len(t, zone[0], 6)
}

func TestSimplifyZonesKeepsCollapsedOriginal(t *testing.T) {
	zone := square(0, 0, 1, 1)

	out := SimplifyZones([]orb.Polygon{zone}, 100)
	require.Len(t, out, 1)
	assert.GreaterOrEqual(t, len(out[0][0]), 4, "zones never collapse below a closed triangle")
}

func TestDropContainedZones(t *testing.T) {
	outer := square(0, 0, 10, 10)
	inner := square(2, 2, 3, 3)
	apart := square(20, 20, 21, 21)

	out := DropContainedZones([]orb.Polygon{inner, outer, apart})
	assert.Len(t, out, 2)
	assert.Contains(t, out, outer)
	assert.Contains(t, out, apart)
	assert.NotContains(t, out, inner)
}

func TestDropContainedZonesKeepsOverlapping(t *testing.T) {
	a := square(0, 0, 5, 5)
	b := square(3, 3, 8, 8)

	out := DropContainedZones([]orb.Polygon{a, b})
	assert.Len(t, out, 2, "partial overlap is not containment")
}
