package server

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const planeOnlyScene = `{
	"name": "Plane Only",
	"texture": "checkerboard",
	"planes": [{"normal": [0, 0, 1], "height": 0}],
	"lights": [{"position": [0, 0, 3], "color": [5, 5, 5]}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plane-only.json"), []byte(planeOnlyScene), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Render.Width = 16
	cfg.Render.Height = 12
	cfg.Render.Workers = 2
	return NewServer(cfg, dir, nil)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("Unexpected body %v (%v)", body, err)
	}
}

func TestHandleScenes(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var scenes []scene.SceneInfo
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatal(err)
	}
	if len(scenes) != 3 || scenes[0].ID != scene.DefaultSceneID || scenes[2].ID != "json:plane-only" {
		t.Errorf("Unexpected scenes %+v", scenes)
	}
}

func TestHandleRender_PNG(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name          string
		query         string
		width, height int
	}{
		{"defaults", "", 16, 12},
		{"sized", "?width=10&height=6&dof=2&aperture=0.05&depth=1&seed=3", 10, 6},
		{"json scene", "?scene=json:plane-only&width=8&height=8", 8, 8},
		{"sphere grid", "?scene=sphere-grid&width=8&height=8&dof=1", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %s", ct)
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("Body is not a PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.width || img.Bounds().Dy() != tt.height {
				t.Errorf("Expected %dx%d, got %v", tt.width, tt.height, img.Bounds())
			}
		})
	}
}

func TestHandleRender_Deterministic(t *testing.T) {
	srv := newTestServer(t)

	render := func() []byte {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?aperture=0.2&seed=11", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		return rec.Body.Bytes()
	}

	if !bytes.Equal(render(), render()) {
		t.Error("Expected identical PNGs for identical seeds")
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	secret := filepath.Join(t.TempDir(), "secret.json")
	if err := os.WriteFile(secret, []byte(planeOnlyScene), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srv.sceneDir, "broken.json"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		query string
	}{
		{"width not a number", "?width=abc"},
		{"width too large", "?width=5000"},
		{"zero dof", "?dof=0"},
		{"negative aperture", "?aperture=-1"},
		{"bad seed", "?seed=1.5"},
		{"unknown scene", "?scene=json:nope"},
		{"broken scene file", "?scene=json:broken"},
		{"absolute scene path", "?scene=" + url.QueryEscape(secret)},
		{"system file", "?scene=" + url.QueryEscape("/etc/passwd")},
		{"missing path", "?scene=" + url.QueryEscape("/no/such/scene.json")},
		{"json id escaping scene dir", "?scene=" + url.QueryEscape("json:../secret")},
		{"upload without bucket", "?upload=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render"+tt.query, nil))
			if rec.Code == http.StatusOK {
				t.Errorf("Expected failure status for %s", tt.query)
			}
			body := rec.Body.String()
			for _, leak := range []string{"no such file", "invalid character", "root:"} {
				if strings.Contains(body, leak) {
					t.Errorf("Response for %s leaks %q: %s", tt.query, leak, body)
				}
			}
		})
	}
}

func TestHandleRenderStream_UnknownScene(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	query := "?scene=" + url.QueryEscape("/etc/passwd")
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render/stream"+query, nil))

	body := rec.Body.String()
	if !strings.Contains(body, "event: error") || !strings.Contains(body, "unknown scene") {
		t.Errorf("Expected unknown scene error event, got %q", body)
	}
	if strings.Contains(body, "event: complete") {
		t.Error("Expected no complete event")
	}
}

func TestHandleRenderStream(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render/stream?width=6&height=5", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected text/event-stream, got %s", ct)
	}

	events := map[string][]string{}
	scanner := bufio.NewScanner(rec.Body)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events[event] = append(events[event], strings.TrimPrefix(line, "data: "))
		}
	}

	if len(events["error"]) != 0 {
		t.Fatalf("Unexpected error events: %v", events["error"])
	}
	if len(events["row"]) != 5 {
		t.Errorf("Expected 5 row events, got %d", len(events["row"]))
	}
	if len(events["complete"]) != 1 {
		t.Fatalf("Expected 1 complete event, got %d", len(events["complete"]))
	}

	var complete CompleteUpdate
	if err := json.Unmarshal([]byte(events["complete"][0]), &complete); err != nil {
		t.Fatal(err)
	}
	if complete.Stats.TotalPixels != 30 || complete.Stats.SamplesPerPixel != 9 {
		t.Errorf("Unexpected stats %+v", complete.Stats)
	}
	data, err := base64.StdEncoding.DecodeString(complete.ImageData)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Completed image is not a PNG: %v", err)
	}
}

func TestHandleInspect(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		status   int
		hit      bool
		geometry string
	}{
		// Image center looks straight at the sphere
		{"sphere", "?width=21&height=21&x=10&y=10", http.StatusOK, true, "sphere"},
		// Bottom row looks down at the ground
		{"plane", "?width=21&height=21&x=10&y=20", http.StatusOK, true, "plane"},
		// Top row looks over everything
		{"miss", "?width=21&height=21&x=10&y=0", http.StatusOK, false, ""},
		{"out of bounds", "?width=21&height=21&x=30&y=0", http.StatusBadRequest, false, ""},
		{"missing x", "?y=0", http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect"+tt.query, nil))
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}

			var response InspectResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatal(err)
			}
			if response.Hit != tt.hit || response.GeometryType != tt.geometry {
				t.Errorf("Expected hit=%v geometry=%q, got %+v", tt.hit, tt.geometry, response)
			}
			if tt.hit && (len(response.Lights) != 1 || response.MaterialName != "ground") {
				t.Errorf("Expected one light and material ground, got %+v", response)
			}
		})
	}
}
