package roadmap

import (
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder"
	"pathfinder/geo"
)

func testZone(x1, y1, x2, y2 float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}, {x1, y1},
	}}
}

// chainRoadmap is three waypoints in a line, each linked to the next.
func chainRoadmap() *Roadmap {
	return &Roadmap{
		Points:    []orb.Point{{0, 0}, {1, 0}, {2, 0}},
		Adjacency: [][]int{{1}, {0, 2}, {1}},
		Radius:    0.5,
	}
}

func testOptions() Options {
	return Options{Samples: 50, ConnectionRadius: 0.3, Seed: 42}
}

func TestBuildProperties(t *testing.T) {
	bounds := Bounds{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}
	rm := Build(bounds, nil, testOptions(), zerolog.Nop())

	require.Equal(t, 50, rm.Len())
	require.Len(t, rm.Adjacency, 50)

	for i, neighbors := range rm.Adjacency {
		assert.IsIncreasing(t, neighbors, "adjacency rows must be sorted")
		for _, j := range neighbors {
			assert.NotEqual(t, i, j, "no self loops")
			assert.LessOrEqual(t, planar.Distance(rm.Points[i], rm.Points[j]), rm.Radius)
			assert.Contains(t, rm.Adjacency[j], i, "edges must be bidirectional")
		}
	}
}

func TestBuildDeterministicWithSeed(t *testing.T) {
	bounds := Bounds{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}

	first := Build(bounds, nil, testOptions(), zerolog.Nop())
	second := Build(bounds, nil, testOptions(), zerolog.Nop())
	assert.Equal(t, first, second)
}

func TestBuildRejectsZoneSamples(t *testing.T) {
	bounds := Bounds{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}
	zones := []orb.Polygon{testZone(0.2, 0.2, 0.8, 0.8)}

	rm := Build(bounds, zones, testOptions(), zerolog.Nop())

	require.NotZero(t, rm.Len())
	for _, p := range rm.Points {
		assert.False(t, geo.PointInsideZone(p, zones[0]), "sample %v lies in a zone", p)
	}
}

func TestAttachAndRoute(t *testing.T) {
	rm := chainRoadmap()

	start, end, err := rm.Attach(orb.Point{0, 0.4}, orb.Point{2, 0.4}, nil)
	require.NoError(t, err)

	route, ok := pathfinder.FindPath(start, end)
	require.True(t, ok)
	assert.Equal(t, []orb.Point{
		{0, 0.4}, {0, 0}, {1, 0}, {2, 0}, {2, 0.4},
	}, PathPoints(route))
}

func TestAttachDoesNotMutateReceiver(t *testing.T) {
	rm := chainRoadmap()

	_, _, err := rm.Attach(orb.Point{0, 0.4}, orb.Point{2, 0.4}, nil)
	require.NoError(t, err)

	assert.Equal(t, chainRoadmap(), rm)
}

func TestAttachUnreachableStart(t *testing.T) {
	rm := chainRoadmap()

	_, _, err := rm.Attach(orb.Point{50, 50}, orb.Point{2, 0.4}, nil)
	assert.Error(t, err)
}

func TestAttachBlockedByZone(t *testing.T) {
	rm := chainRoadmap()
	// The only waypoint within radius of the start is (0,0); wall it off.
	zones := []orb.Polygon{testZone(-0.1, 0.1, 0.1, 0.3)}

	_, _, err := rm.Attach(orb.Point{0, 0.4}, orb.Point{2, 0.4}, zones)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	bounds := Bounds{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}
	rm := Build(bounds, nil, Options{Samples: 10, ConnectionRadius: 0.4, Seed: 7}, zerolog.Nop())

	file := filepath.Join(t.TempDir(), "roadmap.json")
	require.NoError(t, Save(rm, file))

	loaded, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, rm, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestEdgesDeduplicated(t *testing.T) {
	rm := chainRoadmap()

	edges := rm.Edges()
	assert.Len(t, edges, 2, "each undirected edge reported once")
}

func TestAt(t *testing.T) {
	rm := chainRoadmap()

	w, ok := rm.At(1)
	require.True(t, ok)
	assert.Equal(t, 1, w.ID())
	assert.Equal(t, orb.Point{1, 0}, w.Point())

	_, ok = rm.At(3)
	assert.False(t, ok)
	_, ok = rm.At(-1)
	assert.False(t, ok)
}

func TestWaypointContract(t *testing.T) {
	rm := chainRoadmap()
	mid, ok := rm.At(1)
	require.True(t, ok)

	neighbors := mid.ConnectedNodes()
	require.Len(t, neighbors, 2)
	assert.Equal(t, 0, neighbors[0].ID())
	assert.Equal(t, 2, neighbors[1].ID())

	assert.Equal(t, 1.0, mid.Cost(neighbors[0]))
	assert.Equal(t, 1.0, mid.EstimatedCost(neighbors[1]))
}
