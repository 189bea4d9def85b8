// Package roadmap builds graphs the search engine can traverse: sampled
// probabilistic roadmaps and line-of-sight visibility graphs, both respecting
// restricted zones. Roadmap waypoints satisfy the engine's node contract
// directly, so a route is just pathfinder.FindPath over two attached
// waypoints.
package roadmap

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog"

	"pathfinder/geo"
)

// Bounds is the lon/lat sampling region, in degrees.
type Bounds struct {
	MinLon float64 `json:"minLon"`
	MinLat float64 `json:"minLat"`
	MaxLon float64 `json:"maxLon"`
	MaxLat float64 `json:"maxLat"`
}

// Options control roadmap construction.
type Options struct {
	Samples          int     // number of waypoints to sample
	ConnectionRadius float64 // maximum edge length, degrees
	Seed             int64   // 0 seeds from the clock
}

// Roadmap is a pre-computed graph of sampled waypoints. Adjacency lists are
// kept sorted so searches over the roadmap are deterministic.
type Roadmap struct {
	Points    []orb.Point `json:"points"`
	Adjacency [][]int     `json:"adjacency"`
	Bounds    Bounds      `json:"bounds"`
	Radius    float64     `json:"radius"`
}

// pointEntry wraps a sampled point for R-tree candidate lookup during
// construction.
type pointEntry struct {
	id   int
	rect rtreego.Rect
}

func (e *pointEntry) Bounds() rtreego.Rect { return e.rect }

const pointRectSize = 1e-9

func pointRect(p orb.Point) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{p.X(), p.Y()},
		[]float64{pointRectSize, pointRectSize},
	)
	return rect
}

// Build samples waypoints inside bounds, rejecting samples that land in a
// zone, then connects every pair within the connection radius whose joining
// segment is clear. Candidate pairs come from an R-tree query rather than an
// all-pairs scan.
func Build(bounds Bounds, zones []orb.Polygon, opts Options, logger zerolog.Logger) *Roadmap {
	started := time.Now()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger.Info().
		Int("samples", opts.Samples).
		Float64("radius", opts.ConnectionRadius).
		Int("zones", len(zones)).
		Msg("building roadmap")

	rm := &Roadmap{
		Points: make([]orb.Point, 0, opts.Samples),
		Bounds: bounds,
		Radius: opts.ConnectionRadius,
	}

	zoneIndex := geo.NewZoneIndex(zones)

	// Sampling: reject points inside zones, give up after a bounded number
	// of attempts so a zone-saturated region cannot loop forever.
	maxAttempts := opts.Samples * 10
	for attempts := 0; len(rm.Points) < opts.Samples && attempts < maxAttempts; attempts++ {
		p := orb.Point{
			bounds.MinLon + rng.Float64()*(bounds.MaxLon-bounds.MinLon),
			bounds.MinLat + rng.Float64()*(bounds.MaxLat-bounds.MinLat),
		}
		if zoneIndex.PointClear(p) {
			rm.Points = append(rm.Points, p)
		}
	}
	if len(rm.Points) < opts.Samples {
		logger.Warn().
			Int("requested", opts.Samples).
			Int("sampled", len(rm.Points)).
			Msg("sampling exhausted before reaching the requested count")
	}

	rm.Adjacency = make([][]int, len(rm.Points))

	tree := rtreego.NewTree(2, 25, 50)
	for id, p := range rm.Points {
		tree.Insert(&pointEntry{id: id, rect: pointRect(p)})
	}

	edges, rejected := 0, 0
	for i, p := range rm.Points {
		searchRect, err := rtreego.NewRect(
			rtreego.Point{p.X() - opts.ConnectionRadius, p.Y() - opts.ConnectionRadius},
			[]float64{2 * opts.ConnectionRadius, 2 * opts.ConnectionRadius},
		)
		if err != nil {
			continue
		}

		for _, item := range tree.SearchIntersect(searchRect) {
			j := item.(*pointEntry).id
			if j <= i {
				continue
			}
			if planar.Distance(p, rm.Points[j]) > opts.ConnectionRadius {
				continue
			}
			if !zoneIndex.SegmentClear(p, rm.Points[j]) {
				rejected++
				continue
			}
			rm.Adjacency[i] = append(rm.Adjacency[i], j)
			rm.Adjacency[j] = append(rm.Adjacency[j], i)
			edges++
		}
	}

	for i := range rm.Adjacency {
		sort.Ints(rm.Adjacency[i])
	}

	logger.Info().
		Int("waypoints", len(rm.Points)).
		Int("edges", edges).
		Int("rejectedEdges", rejected).
		Dur("elapsed", time.Since(started)).
		Msg("roadmap built")

	return rm
}

// Len returns the number of waypoints.
func (r *Roadmap) Len() int {
	return len(r.Points)
}

// At returns the waypoint with the given id.
func (r *Roadmap) At(id int) (Waypoint, bool) {
	if id < 0 || id >= len(r.Points) {
		return Waypoint{}, false
	}
	return Waypoint{id: id, rm: r}, true
}

// Attach returns a copy of the roadmap with two extra waypoints for the
// start and end points, each connected to every existing waypoint within the
// connection radius that it can reach without crossing a zone. The receiver
// is never modified, so searches over it stay valid while requests attach
// their own endpoints.
func (r *Roadmap) Attach(start, end orb.Point, zones []orb.Polygon) (startW, endW Waypoint, err error) {
	attached := &Roadmap{
		Points:    make([]orb.Point, len(r.Points), len(r.Points)+2),
		Adjacency: make([][]int, len(r.Points), len(r.Points)+2),
		Bounds:    r.Bounds,
		Radius:    r.Radius,
	}
	copy(attached.Points, r.Points)
	for i, row := range r.Adjacency {
		attached.Adjacency[i] = append([]int(nil), row...)
	}

	startID := attached.addConnected(start, zones)
	endID := attached.addConnected(end, zones)

	if startID < 0 {
		return Waypoint{}, Waypoint{}, fmt.Errorf("start point %v not connectable to any waypoint", start)
	}
	if endID < 0 {
		return Waypoint{}, Waypoint{}, fmt.Errorf("end point %v not connectable to any waypoint", end)
	}

	for i := range attached.Adjacency {
		sort.Ints(attached.Adjacency[i])
	}

	return Waypoint{id: startID, rm: attached}, Waypoint{id: endID, rm: attached}, nil
}

// addConnected appends a point and links it to every reachable waypoint
// within the connection radius. Returns -1 when nothing is reachable.
func (r *Roadmap) addConnected(p orb.Point, zones []orb.Polygon) int {
	id := len(r.Points)
	r.Points = append(r.Points, p)
	r.Adjacency = append(r.Adjacency, nil)

	connected := false
	for i := 0; i < id; i++ {
		if planar.Distance(p, r.Points[i]) > r.Radius {
			continue
		}
		if !geo.PathClear(p, r.Points[i], zones) {
			continue
		}
		r.Adjacency[id] = append(r.Adjacency[id], i)
		r.Adjacency[i] = append(r.Adjacency[i], id)
		connected = true
	}

	if !connected {
		return -1
	}
	return id
}

// Edges returns each undirected edge once, as point pairs for visualization.
func (r *Roadmap) Edges() [][2]orb.Point {
	type edgeKey struct{ a, b int }
	seen := make(map[edgeKey]bool)

	var lines [][2]orb.Point
	for from, neighbors := range r.Adjacency {
		for _, to := range neighbors {
			key := edgeKey{a: from, b: to}
			if from > to {
				key = edgeKey{a: to, b: from}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			lines = append(lines, [2]orb.Point{r.Points[from], r.Points[to]})
		}
	}
	return lines
}

// Save writes the roadmap to a JSON file.
func Save(r *Roadmap, filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write roadmap: %w", err)
	}
	return nil
}

// Load reads a roadmap from a JSON file written by Save.
func Load(filename string) (*Roadmap, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read roadmap: %w", err)
	}
	var rm Roadmap
	if err := json.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("unmarshal roadmap: %w", err)
	}
	return &rm, nil
}

// PathPoints maps a waypoint route back to coordinates.
func PathPoints(route []Waypoint) []orb.Point {
	points := make([]orb.Point, len(route))
	for i, w := range route {
		points[i] = w.Point()
	}
	return points
}
