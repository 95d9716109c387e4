package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string  // Scene ID (e.g., "default", "json:plane-only")
	Width    int     // Image width
	Height   int     // Image height
	DOF      int     // Lens samples per axis
	Aperture float64 // Lens grid spacing
	Depth    int     // Mirror recursion budget
	Seed     int64   // Dither seed
	Upload   bool    // Also store the PNG in the bucket
}

// RowUpdate reports scanline progress via SSE
type RowUpdate struct {
	Row          int `json:"row"`
	RowsFinished int `json:"rowsFinished"`
	TotalRows    int `json:"totalRows"`
}

// CompleteUpdate carries the finished image via SSE
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
	UploadKey string `json:"uploadKey,omitempty"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int `json:"totalPixels"`
	TotalSamples    int `json:"totalSamples"`
	SamplesPerPixel int `json:"samplesPerPixel"`
	SkippedSamples  int `json:"skippedSamples"`
	SkippedLights   int `json:"skippedLights"`
}

// handleRender renders the whole image and returns it as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	logger := renderer.NewDefaultLogger()
	rt, err := s.newRaytracer(req, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	surface := output.NewSurface(req.Width, req.Height)
	stats, err := rt.RenderParallel(r.Context(), surface)
	if err != nil {
		// Client went away or the render failed; nothing useful to send
		log.Printf("Render of %s failed: %v", req.Scene, err)
		http.Error(w, "Render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		http.Error(w, "Failed to encode image", http.StatusInternalServerError)
		return
	}

	if req.Upload {
		key, err := s.upload(r, req, buf.Bytes())
		if err != nil {
			log.Printf("Upload failed: %v", err)
			http.Error(w, "Upload failed", http.StatusBadGateway)
			return
		}
		w.Header().Set("X-Upload-Key", key)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders with scanline progress and console output streamed via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// The collector, row callback and logger all run on this goroutine
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(req.Scene, consoleChan)

	rt, err := s.newRaytracer(req, logger)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", err.Error())
		return
	}

	surface := output.NewSurface(req.Width, req.Height)
	surface.OnRow(func(y int) error {
		s.drainConsole(w, flusher, consoleChan)
		data, err := json.Marshal(RowUpdate{Row: y, RowsFinished: surface.RowsFinished(), TotalRows: req.Height})
		if err != nil {
			return err
		}
		s.sendSSEEvent(w, flusher, "row", string(data))
		return nil
	})

	stats, err := rt.RenderParallel(r.Context(), surface)
	s.drainConsole(w, flusher, consoleChan)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		s.sendSSEEvent(w, flusher, "error", "Failed to encode image")
		return
	}

	update := CompleteUpdate{
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats: Stats{
			TotalPixels:     stats.TotalPixels,
			TotalSamples:    stats.TotalSamples,
			SamplesPerPixel: stats.SamplesPerPixel,
			SkippedSamples:  stats.SkippedSamples,
			SkippedLights:   stats.SkippedLights,
		},
		ElapsedMs: stats.Elapsed.Milliseconds(),
	}
	if req.Upload {
		if update.UploadKey, err = s.upload(r, req, buf.Bytes()); err != nil {
			s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("Upload failed: %v", err))
			return
		}
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", err.Error())
		return
	}
	s.sendSSEEvent(w, flusher, "complete", string(data))
}

// newRaytracer loads the requested scene and configures a raytracer for it
func (s *Server) newRaytracer(req *RenderRequest, logger core.Logger) (*renderer.Raytracer, error) {
	sceneObj, err := loaders.OpenSceneID(req.Scene, s.sceneDir, s.config.Texture, MaxTextureSize)
	if err != nil {
		// file system and parse errors stay in the server log
		log.Printf("Failed to load scene %s: %v", req.Scene, err)
		return nil, fmt.Errorf("unknown scene: %q", req.Scene)
	}

	cfg := s.config.Render
	cfg.Width = req.Width
	cfg.Height = req.Height
	cfg.DOFX = req.DOF
	cfg.DOFY = req.DOF
	cfg.Aperture = req.Aperture
	cfg.MaxDepth = req.Depth
	cfg.Seed = req.Seed

	return renderer.NewRaytracer(sceneObj, cfg, logger)
}

// upload stores a finished PNG under <scene>/render_<timestamp>.png
func (s *Server) upload(r *http.Request, req *RenderRequest, data []byte) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("uploads are not configured")
	}
	name := strings.TrimPrefix(req.Scene, "json:")
	key := fmt.Sprintf("%s/render_%s.png", name, time.Now().Format("20060102_150405"))
	return key, s.uploader.UploadPNG(r.Context(), key, data)
}

// parseRenderRequest parses request parameters over the server defaults
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	defaults := s.config.Render
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if !loaders.IsSceneID(req.Scene) {
		return nil, fmt.Errorf("unknown scene: %q", req.Scene)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaults.Width, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaults.Height, 1, 2000); err != nil {
		return nil, err
	}
	if req.DOF, err = parseIntParam(query, "dof", defaults.DOFX, 1, 16); err != nil {
		return nil, err
	}
	if req.Aperture, err = parseFloatParam(query, "aperture", defaults.Aperture, 0, 1); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", defaults.MaxDepth, 0, 16); err != nil {
		return nil, err
	}

	req.Seed = defaults.Seed
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	req.Upload = query.Get("upload") == "1" || query.Get("upload") == "true"

	// Performance warning
	if req.Width*req.Height*req.DOF*req.DOF > 800*600*25 {
		log.Printf("Render warning: %dx%d at %d lens samples may render slowly", req.Width, req.Height, req.DOF*req.DOF)
	}

	return req, nil
}

// setSSEHeaders sets the headers for server-sent events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// drainConsole forwards queued console messages without blocking
func (s *Server) drainConsole(w http.ResponseWriter, flusher http.Flusher, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			s.sendSSEEvent(w, flusher, "console", string(data))
		default:
			return
		}
	}
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
