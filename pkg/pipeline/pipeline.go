// Package pipeline provides the core wayfinding pipeline for Wayfinder.
//
// This package implements the complete load → build → route pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Load the venue map and construct the routing graph
//  2. Route: Find the shortest path between two nodes
//  3. Narrate: Turn the path into human-readable instructions
//
// Build results and computed routes are cached by map content hash, so
// repeated requests against an unchanged venue skip the expensive stages.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store.NewFileSource(), logger)
//	opts := pipeline.Options{
//	    MapPath: "maps/airport.json",
//	    StartID: 17,
//	    GoalID:  42,
//	}
//	result, err := runner.Route(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, line := range result.Instructions {
//	    fmt.Println(line)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/store"
)

// Options contains all configuration for the wayfinding pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Map selection. Exactly one of MapPath (file source) or Venue
	// (store-backed source) must be set.
	MapPath string `json:"map_path,omitempty"`
	Venue   string `json:"venue,omitempty"`

	// Route endpoints.
	StartID int64 `json:"start_id"`
	GoalID  int64 `json:"goal_id"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger  `json:"-"`
	Source store.Source `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// SnapOptions configures a live-position snap against a computed route.
type SnapOptions struct {
	Options

	// Position is the reported live position.
	Position geo.Coordinate `json:"position"`

	// RouteIDs is the node sequence of the route being followed.
	RouteIDs []int64 `json:"route_ids"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RouteIDs is the node id sequence from start to goal.
	RouteIDs []int64

	// Instructions is the turn-by-turn narration of the route.
	Instructions []string

	// CostMeters is the total walking distance of the route.
	CostMeters float64

	// MapHash is the content hash of the venue map.
	MapHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	ArcCount     int
	DroppedNodes int
	DroppedEdges int
	BuildTime    time.Duration
	RouteTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit bool // Whether the built graph came from cache
	RouteHit bool // Whether the computed route came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for loading and building.
func (o *Options) ValidateForBuild() error {
	if o.MapPath == "" && o.Venue == "" {
		return errors.New(errors.ErrCodeInvalidInput, "map_path or venue is required")
	}
	if o.MapPath != "" && o.Venue != "" {
		return errors.New(errors.ErrCodeInvalidInput, "map_path and venue are mutually exclusive")
	}
	if o.MapPath != "" {
		if err := errors.ValidateMapPath(o.MapPath); err != nil {
			return err
		}
	}
	if o.Venue != "" {
		if err := errors.ValidateVenueName(o.Venue); err != nil {
			return err
		}
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// mapName returns whichever of MapPath or Venue is set, for Source.Load
// and log fields.
func (o *Options) mapName() string {
	if o.MapPath != "" {
		return o.MapPath
	}
	return o.Venue
}

// Validate checks a snap request.
func (o *SnapOptions) Validate() error {
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if len(o.RouteIDs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "route_ids is required")
	}
	if o.Position.Lat < -90 || o.Position.Lat > 90 || o.Position.Lon < -180 || o.Position.Lon > 180 {
		return errors.New(errors.ErrCodeInvalidPosition, "position out of range: lon=%v lat=%v", o.Position.Lon, o.Position.Lat)
	}
	return nil
}
