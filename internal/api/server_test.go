package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wayfinder/pkg/pipeline"
)

const corridorMap = `{
	"nodes": [
		{"id": 1, "name": "A", "coordinate": [0, 0]},
		{"id": 2, "name": "B", "coordinate": [0, 0.001]},
		{"id": 3, "name": "C", "coordinate": [0, 0.002]}
	],
	"edges": [
		{"id": "e1", "start_id": "1", "end_id": "2", "distance": "111.2",
			"geometry": [[0, 0], [0, 0.001]]},
		{"id": "e2", "start_id": "2", "end_id": "3", "distance": "111.2",
			"geometry": [[0, 0.001], [0, 0.002]]}
	]
}`

func testServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	mapPath := filepath.Join(t.TempDir(), "venue.json")
	if err := os.WriteFile(mapPath, []byte(corridorMap), 0644); err != nil {
		t.Fatal(err)
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, nil, logger)
	srv := httptest.NewServer(NewServer(runner, logger).Router())
	t.Cleanup(srv.Close)
	return srv, mapPath
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestRouteEndpoint(t *testing.T) {
	srv, mapPath := testServer(t)

	resp := postJSON(t, srv.URL+"/api/route", map[string]any{
		"map":      mapPath,
		"start_id": 1,
		"goal_id":  3,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}

	var body struct {
		RequestID    string   `json:"request_id"`
		RouteIDs     []int64  `json:"route_ids"`
		Instructions []string `json:"instructions"`
		CostMeters   float64  `json:"cost_meters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body.RequestID == "" {
		t.Error("request_id should be set")
	}
	if len(body.RouteIDs) != 3 {
		t.Errorf("route_ids = %v, want 3 nodes", body.RouteIDs)
	}
	if body.CostMeters != 222.4 {
		t.Errorf("cost_meters = %v, want 222.4", body.CostMeters)
	}
	if len(body.Instructions) == 0 || !strings.HasPrefix(body.Instructions[0], "Start by heading towards") {
		t.Errorf("instructions = %v", body.Instructions)
	}
}

func TestRouteEndpointErrors(t *testing.T) {
	srv, mapPath := testServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "MissingMap",
			body:       map[string]any{"start_id": 1, "goal_id": 3},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "UnknownNode",
			body:       map[string]any{"map": mapPath, "start_id": 1, "goal_id": 99},
			wantStatus: http.StatusNotFound,
			wantCode:   "NODE_NOT_FOUND",
		},
		{
			name:       "Unreachable",
			body:       map[string]any{"map": mapPath, "start_id": 3, "goal_id": 1},
			wantStatus: http.StatusNotFound,
			wantCode:   "NO_ROUTE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/route", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestRouteEndpointBadJSON(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/api/route", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSnapEndpoint(t *testing.T) {
	srv, mapPath := testServer(t)

	resp := postJSON(t, srv.URL+"/api/snap", map[string]any{
		"map":       mapPath,
		"position":  map[string]float64{"lon": 0.0005, "lat": 0.0005},
		"route_ids": []int64{1, 2, 3},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}

	var body struct {
		Snapped struct {
			Lon float64 `json:"lon"`
			Lat float64 `json:"lat"`
		} `json:"snapped"`
		OnRoute bool `json:"on_route"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OnRoute {
		t.Error("expected position to snap onto the route")
	}
	if body.Snapped.Lon != 0 {
		t.Errorf("snapped.lon = %v, want 0", body.Snapped.Lon)
	}
}

func TestSnapEndpointValidation(t *testing.T) {
	srv, mapPath := testServer(t)

	resp := postJSON(t, srv.URL+"/api/snap", map[string]any{
		"map":       mapPath,
		"position":  map[string]float64{"lon": 0, "lat": 200},
		"route_ids": []int64{1, 2},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
