package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/feature"
	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/graph"
	"github.com/matzehuels/wayfinder/pkg/route"
	"github.com/matzehuels/wayfinder/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, source and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Source store.Source
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and source.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If source is nil, a FileSource is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, source store.Source, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if source == nil {
		source = store.NewFileSource()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Source: source,
		Logger: logger,
	}
}

// BuildResult holds a built routing graph plus the context later stages
// need: the parsed edges (for geometry lookup), the map content hash
// (for cache keys) and ingestion statistics.
type BuildResult struct {
	Graph        *graph.Graph
	Edges        []feature.Edge
	MapHash      string
	DroppedNodes int
	DroppedEdges int
	CacheHit     bool
}

// buildPayload is the cacheable form of a build. The graph itself holds
// pointers and is rebuilt from the parsed features on a cache hit;
// graph.Build is cheap compared to loading and parsing the map.
type buildPayload struct {
	Nodes        []feature.Node `json:"nodes"`
	Edges        []feature.Edge `json:"edges"`
	DroppedNodes int            `json:"dropped_nodes"`
	DroppedEdges int            `json:"dropped_edges"`
}

// routePayload is the cacheable form of a computed route.
type routePayload struct {
	IDs          []int64  `json:"ids"`
	Instructions []string `json:"instructions"`
	Cost         float64  `json:"cost"`
}

// Build loads the venue map and constructs the routing graph, using the
// cache when the map content is unchanged.
func (r *Runner) Build(ctx context.Context, opts Options) (*BuildResult, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	m, err := r.Source.Load(ctx, opts.mapName())
	if err != nil {
		return nil, err
	}

	// Hash the raw records so edits to the map invalidate the cache.
	rawMap, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize map")
	}
	mapHash := cache.Hash(rawMap)
	cacheKey := r.Keyer.GraphKey(mapHash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var payload buildPayload
			if err := json.Unmarshal(data, &payload); err == nil {
				return &BuildResult{
					Graph:        graph.Build(payload.Nodes, payload.Edges),
					Edges:        payload.Edges,
					MapHash:      mapHash,
					DroppedNodes: payload.DroppedNodes,
					DroppedEdges: payload.DroppedEdges,
					CacheHit:     true,
				}, nil
			}
			// Invalid cache entry - fall through to rebuild
		}
	}

	nodes, edges, droppedNodes, droppedEdges := m.Parse()
	if droppedNodes > 0 || droppedEdges > 0 {
		opts.Logger.Warn("dropped malformed records",
			"map", opts.mapName(),
			"nodes", droppedNodes,
			"edges", droppedEdges)
	}

	g := graph.Build(nodes, edges)

	if !opts.Refresh {
		payload := buildPayload{
			Nodes:        nodes,
			Edges:        edges,
			DroppedNodes: droppedNodes,
			DroppedEdges: droppedEdges,
		}
		if data, err := json.Marshal(payload); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultGraphTTL)
		}
	}

	return &BuildResult{
		Graph:        g,
		Edges:        edges,
		MapHash:      mapHash,
		DroppedNodes: droppedNodes,
		DroppedEdges: droppedEdges,
	}, nil
}

// Route runs the complete build → find → narrate pipeline with caching.
func (r *Runner) Route(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	buildStart := time.Now()
	build, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.MapHash = build.MapHash
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = build.Graph.NodeCount()
	result.Stats.ArcCount = build.Graph.ArcCount()
	result.Stats.DroppedNodes = build.DroppedNodes
	result.Stats.DroppedEdges = build.DroppedEdges
	result.CacheInfo.GraphHit = build.CacheHit

	opts.Logger.Info("built routing graph",
		"map", opts.mapName(),
		"nodes", result.Stats.NodeCount,
		"arcs", result.Stats.ArcCount,
		"duration", result.Stats.BuildTime)

	routeStart := time.Now()
	routeKey := r.Keyer.RouteKey(build.MapHash, opts.StartID, opts.GoalID)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, routeKey); err == nil && hit {
			var payload routePayload
			if err := json.Unmarshal(data, &payload); err == nil {
				result.RouteIDs = payload.IDs
				result.Instructions = payload.Instructions
				result.CostMeters = payload.Cost
				result.Stats.RouteTime = time.Since(routeStart)
				result.CacheInfo.RouteHit = true
				return result, nil
			}
		}
	}

	path, err := route.Find(build.Graph, opts.StartID, opts.GoalID)
	if err != nil {
		return nil, routeError(err, opts)
	}

	result.RouteIDs = path.IDs()
	result.Instructions = route.Instructions(path)
	result.CostMeters = path.Cost()
	result.Stats.RouteTime = time.Since(routeStart)

	opts.Logger.Info("found route",
		"start", opts.StartID,
		"goal", opts.GoalID,
		"hops", len(result.RouteIDs),
		"meters", result.CostMeters,
		"duration", result.Stats.RouteTime)

	if !opts.Refresh {
		payload := routePayload{
			IDs:          result.RouteIDs,
			Instructions: result.Instructions,
			Cost:         result.CostMeters,
		}
		if data, err := json.Marshal(payload); err == nil {
			_ = r.Cache.Set(ctx, routeKey, data, cache.DefaultRouteTTL)
		}
	}

	return result, nil
}

// Snap projects a live position onto a previously computed route.
// The boolean reports whether any route segment had usable geometry.
func (r *Runner) Snap(ctx context.Context, opts SnapOptions) (geo.Coordinate, bool, error) {
	if err := opts.Validate(); err != nil {
		return geo.Coordinate{}, false, err
	}
	r.applyLogger(&opts.Options)

	build, err := r.Build(ctx, opts.Options)
	if err != nil {
		return geo.Coordinate{}, false, err
	}

	path := make(route.Route, 0, len(opts.RouteIDs))
	for _, id := range opts.RouteIDs {
		n, ok := build.Graph.Node(id)
		if !ok {
			return geo.Coordinate{}, false, errors.New(errors.ErrCodeNodeNotFound, "route node %d not in graph", id)
		}
		path = append(path, n)
	}

	idx := route.NewGeometryIndex(build.Edges)
	snapped, ok := route.Snap(opts.Position, path, idx)
	return snapped, ok, nil
}

// Close releases resources held by the runner (cache and source).
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Source != nil {
		if err := r.Source.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// routeError maps pathfinder sentinels onto structured errors so the
// CLI and API report them consistently.
func routeError(err error, opts Options) error {
	switch {
	case stderrors.Is(err, route.ErrNodeNotFound):
		return errors.Wrap(errors.ErrCodeNodeNotFound, err, "route %d -> %d", opts.StartID, opts.GoalID)
	case stderrors.Is(err, route.ErrNoRoute):
		return errors.Wrap(errors.ErrCodeNoRoute, err, "route %d -> %d", opts.StartID, opts.GoalID)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "route %d -> %d", opts.StartID, opts.GoalID)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
