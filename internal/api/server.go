// Package api exposes the wayfinding pipeline over HTTP.
//
// Endpoints:
//
//	POST /api/route   compute a route and its narration
//	POST /api/snap    snap a live position onto a route
//	GET  /healthz     liveness probe
//
// Request and response bodies are JSON. Errors carry the structured
// error code so clients can branch without string matching.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/wayfinder/pkg/buildinfo"
	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/pipeline"
)

// requestTimeout bounds a single route or snap computation.
const requestTimeout = 30 * time.Second

// Server handles wayfinding HTTP requests.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/route", s.handleRoute)
		r.Post("/snap", s.handleSnap)
	})

	return r
}

// routeRequest is the body of POST /api/route.
type routeRequest struct {
	Map     string `json:"map,omitempty"`
	Venue   string `json:"venue,omitempty"`
	StartID int64  `json:"start_id"`
	GoalID  int64  `json:"goal_id"`
	Refresh bool   `json:"refresh,omitempty"`
}

// routeResponse is the body of a successful POST /api/route.
type routeResponse struct {
	RequestID    string   `json:"request_id"`
	RouteIDs     []int64  `json:"route_ids"`
	Instructions []string `json:"instructions"`
	CostMeters   float64  `json:"cost_meters"`
	MapHash      string   `json:"map_hash"`
	Cached       bool     `json:"cached"`
}

// snapRequest is the body of POST /api/snap.
type snapRequest struct {
	Map      string         `json:"map,omitempty"`
	Venue    string         `json:"venue,omitempty"`
	Position geo.Coordinate `json:"position"`
	RouteIDs []int64        `json:"route_ids"`
}

// snapResponse is the body of a successful POST /api/snap.
type snapResponse struct {
	RequestID string         `json:"request_id"`
	Snapped   geo.Coordinate `json:"snapped"`
	OnRoute   bool           `json:"on_route"`
}

// errorResponse is the body of any failed request.
type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
	})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, reqID, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	result, err := s.runner.Route(r.Context(), pipeline.Options{
		MapPath: req.Map,
		Venue:   req.Venue,
		StartID: req.StartID,
		GoalID:  req.GoalID,
		Refresh: req.Refresh,
		Logger:  s.logger.With("request_id", reqID),
	})
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}

	writeJSON(w, http.StatusOK, routeResponse{
		RequestID:    reqID,
		RouteIDs:     result.RouteIDs,
		Instructions: result.Instructions,
		CostMeters:   result.CostMeters,
		MapHash:      result.MapHash,
		Cached:       result.CacheInfo.RouteHit,
	})
}

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	var req snapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, reqID, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	snapped, ok, err := s.runner.Snap(r.Context(), pipeline.SnapOptions{
		Options: pipeline.Options{
			MapPath: req.Map,
			Venue:   req.Venue,
			Logger:  s.logger.With("request_id", reqID),
		},
		Position: req.Position,
		RouteIDs: req.RouteIDs,
	})
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}

	writeJSON(w, http.StatusOK, snapResponse{
		RequestID: reqID,
		Snapped:   snapped,
		OnRoute:   ok,
	})
}

// logRequests logs one line per request with method, path and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// writeError maps a structured error to an HTTP status and JSON body.
func (s *Server) writeError(w http.ResponseWriter, reqID string, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", reqID, "error", err)
	}
	writeJSON(w, status, errorResponse{
		RequestID: reqID,
		Code:      string(errors.GetCode(err)),
		Error:     errors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMap, errors.ErrCodeInvalidVenue,
		errors.ErrCodeInvalidPosition, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeVenueNotFound,
		errors.ErrCodeFileNotFound, errors.ErrCodeNoRoute:
		return http.StatusNotFound
	case errors.ErrCodeStore:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
