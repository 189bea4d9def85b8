// Command planner serves route planning over HTTP. It keeps one roadmap in
// memory (built on request or loaded from disk) and answers /route by
// attaching the requested endpoints to it and searching; without a roadmap it
// falls back to a per-request visibility graph over the submitted zones.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"pathfinder"
	"pathfinder/geo"
	"pathfinder/roadmap"
)

// Default sampling region: the Netherlands, approximately.
var defaultBounds = roadmap.Bounds{
	MinLat: 50.75, // south, Limburg
	MaxLat: 53.55, // north, Groningen
	MinLon: 3.36,  // west, North Sea coast
	MaxLon: 7.23,  // east, German border
}

const (
	defaultSamples = 500
	defaultRadius  = 0.1 // degrees, roughly 11 km
)

type server struct {
	log  zerolog.Logger
	file string // roadmap persistence path

	mu sync.RWMutex
	rm *roadmap.Roadmap
}

type routeRequest struct {
	Start orb.Point     `json:"start"`
	End   orb.Point     `json:"end"`
	Zones []orb.Polygon `json:"zones,omitempty"`
}

type routeResponse struct {
	Path           []orb.Point `json:"path"`
	Success        bool        `json:"success"`
	Message        string      `json:"message,omitempty"`
	DistanceMeters float64     `json:"distanceMeters,omitempty"`
}

type buildRequest struct {
	Samples          int             `json:"samples"`
	ConnectionRadius float64         `json:"connectionRadius"`
	Seed             int64           `json:"seed,omitempty"`
	Bounds           *roadmap.Bounds `json:"bounds,omitempty"`
	Zones            []orb.Polygon   `json:"zones,omitempty"`
	SaveToFile       bool            `json:"saveToFile,omitempty"`
	Force            bool            `json:"force,omitempty"`
}

// corsMiddleware allows browser frontends on any origin.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *server) current() *roadmap.Roadmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rm
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rm := s.current()

	status := "ready"
	waypoints := 0
	if rm == nil {
		status = "no roadmap, visibility-only routing"
	} else {
		waypoints = rm.Len()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"hasRoadmap": rm != nil,
		"waypoints":  waypoints,
	})
}

func (s *server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Warn().Err(err).Msg("bad build request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if s.current() != nil && !req.Force {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": "roadmap already exists; set force to rebuild",
		})
		return
	}

	if req.Samples == 0 {
		req.Samples = defaultSamples
	}
	if req.ConnectionRadius == 0 {
		req.ConnectionRadius = defaultRadius
	}
	bounds := defaultBounds
	if req.Bounds != nil {
		bounds = *req.Bounds
	}

	zones := geo.DropContainedZones(req.Zones)
	rm := roadmap.Build(bounds, zones, roadmap.Options{
		Samples:          req.Samples,
		ConnectionRadius: req.ConnectionRadius,
		Seed:             req.Seed,
	}, s.log)

	s.mu.Lock()
	s.rm = rm
	s.mu.Unlock()

	if req.SaveToFile {
		if err := roadmap.Save(rm, s.file); err != nil {
			s.log.Error().Err(err).Str("file", s.file).Msg("saving roadmap failed")
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"waypoints": rm.Len(),
		"bounds":    rm.Bounds,
	})
}

func (s *server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Warn().Err(err).Msg("bad route request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.log.Info().
		Float64("startLon", req.Start.X()).Float64("startLat", req.Start.Y()).
		Float64("endLon", req.End.X()).Float64("endLat", req.End.Y()).
		Int("zones", len(req.Zones)).
		Msg("route request")

	var start, end roadmap.Waypoint
	if rm := s.current(); rm != nil {
		var err error
		start, end, err = rm.Attach(req.Start, req.End, req.Zones)
		if err != nil {
			s.log.Warn().Err(err).Msg("endpoint attachment failed")
			writeJSON(w, http.StatusOK, routeResponse{Success: false, Message: err.Error()})
			return
		}
	} else {
		start, end = roadmap.Visibility(req.Start, req.End, req.Zones)
	}

	route, ok := pathfinder.FindPath(start, end)
	if !ok {
		s.log.Warn().Msg("no route found")
		writeJSON(w, http.StatusOK, routeResponse{Success: false, Message: "no route found"})
		return
	}

	points := roadmap.PathPoints(route)
	distance := geo.PathLengthMeters(points)

	s.log.Info().
		Int("waypoints", len(points)).
		Float64("meters", distance).
		Msg("route found")

	writeJSON(w, http.StatusOK, routeResponse{
		Path:           points,
		Success:        true,
		DistanceMeters: distance,
	})
}

func (s *server) handleEdges(w http.ResponseWriter, r *http.Request) {
	rm := s.current()
	if rm == nil {
		http.Error(w, "no roadmap built", http.StatusBadRequest)
		return
	}

	edges := rm.Edges()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"edges":     edges,
		"waypoints": rm.Len(),
	})
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	file := flag.String("roadmap", "roadmap.json", "roadmap persistence file")
	zoneDir := flag.String("zones", "", "directory of *.geojson restricted zones used when building")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	s := &server{log: log, file: *file}

	if rm, err := roadmap.Load(*file); err == nil {
		s.rm = rm
		log.Info().Str("file", *file).Int("waypoints", rm.Len()).Msg("loaded roadmap")
	} else {
		log.Info().Str("file", *file).Msg("no roadmap on disk, build one via /build")
	}

	if *zoneDir != "" {
		zones, err := geo.LoadZones(*zoneDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", *zoneDir).Msg("loading zones failed")
		}
		log.Info().Int("zones", len(zones)).Str("dir", *zoneDir).Msg("zones loaded")

		if s.rm == nil {
			zones = geo.DropContainedZones(geo.SimplifyZones(zones, 0.001))
			s.rm = roadmap.Build(defaultBounds, zones, roadmap.Options{
				Samples:          defaultSamples,
				ConnectionRadius: defaultRadius,
			}, log)
		}
	}

	http.HandleFunc("/health", corsMiddleware(s.handleHealth))
	http.HandleFunc("/build", corsMiddleware(s.handleBuild))
	http.HandleFunc("/route", corsMiddleware(s.handleRoute))
	http.HandleFunc("/edges", corsMiddleware(s.handleEdges))

	log.Info().Str("addr", *addr).Msg("planner listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
