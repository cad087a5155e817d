package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Request limits
const (
	maxImageSide = 2000
	maxSamples   = 10000
	maxDepth     = 1000
)

// RenderRequest represents a render request from the client.
// Zero sizes and samples keep the scene's own settings, as does a MaxDepth of -1.
type RenderRequest struct {
	Scene           string `json:"scene"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
	Workers         int    `json:"workers"`
	Seed            int64  `json:"seed"`
	Gamma           bool   `json:"gamma"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	AverageLuminance float64 `json:"averageLuminance"` // Mean Rec. 709 luminance of the 8-bit image
}

// CompleteUpdate is the final SSE event of a render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxImageSide); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, maxImageSide); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 1, 256); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseBoolParam(query, "gamma", true); err != nil {
		return nil, err
	}

	req.Seed = renderer.DefaultRenderConfig().Seed
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	return req, nil
}

// createScene loads the requested scene, applies the overrides and builds its camera
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Load(req.Scene, s.scenesDir, req.Seed)
	if err != nil {
		return nil, err
	}

	base := sceneObj.SamplingConfig
	sampling := renderer.MergeSamplingConfig(base, renderer.SamplingConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.SamplesPerPixel,
	})
	if req.MaxDepth >= 0 {
		sampling.MaxDepth = req.MaxDepth
	}
	if req.Width > 0 && req.Height == 0 {
		sampling.Height = max(1, req.Width*base.Height/base.Width)
	}
	sampling.Gamma = req.Gamma
	sceneObj.SamplingConfig = sampling

	if err := sceneObj.Preprocess(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

func (s *Server) newRenderer(req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (*renderer.Renderer, error) {
	config := renderer.DefaultRenderConfig()
	config.NumWorkers = req.Workers
	config.Seed = req.Seed
	return renderer.NewRenderer(sceneObj, sceneObj.SamplingConfig, config, logger)
}

// handleImage renders synchronously and returns the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	format := output.FormatPNG
	if value := r.URL.Query().Get("format"); value != "" {
		if format, err = output.ParseFormat(value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rend, err := s.newRenderer(req, sceneObj, NewWebLogger(nil, s.logOut))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, _, err := rend.Render(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, img, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if format == output.FormatPNG {
		w.Header().Set("Content-Type", "image/png")
	} else {
		w.Header().Set("Content-Type", "image/x-portable-pixmap")
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(buf.Bytes())
}

type renderOutcome struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// handleRender streams the render log as "console" events, then one "complete"
// event carrying the image, or an "error" event
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 100)
	rend, err := s.newRenderer(req, sceneObj, NewWebLogger(consoleChan, s.logOut))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()
	startTime := time.Now()

	done := make(chan renderOutcome, 1)
	go func() {
		img, stats, err := rend.Render(ctx)
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendJSONEvent(w, flusher, "console", msg)
		case outcome := <-done:
			s.drainConsole(w, flusher, consoleChan)
			s.finishRender(ctx, w, flusher, outcome, startTime)
			return
		}
	}
}

func (s *Server) drainConsole(w http.ResponseWriter, flusher http.Flusher, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendJSONEvent(w, flusher, "console", msg)
		default:
			return
		}
	}
}

func (s *Server) finishRender(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, outcome renderOutcome, startTime time.Time) {
	if outcome.err != nil {
		if ctx.Err() == nil {
			s.sendSSEEvent(w, flusher, "error", outcome.err.Error())
		}
		return
	}

	imageData, err := imageToBase64PNG(outcome.img)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	bounds := outcome.img.Bounds()
	s.sendJSONEvent(w, flusher, "complete", CompleteUpdate{
		ImageData: imageData,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Stats: Stats{
			TotalPixels:      outcome.stats.TotalPixels,
			TotalSamples:     outcome.stats.TotalSamples,
			AverageSamples:   outcome.stats.AverageSamples,
			AverageLuminance: renderer.CalculateAverageLuminance(outcome.img),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) sendJSONEvent(w http.ResponseWriter, flusher http.Flusher, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", err.Error())
		return
	}
	s.sendSSEEvent(w, flusher, event, string(data))
}

// sendSSEEvent writes one event; data must not contain newlines
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
