package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Server serves renders of built-in and file scenes over HTTP
type Server struct {
	port      int
	scenesDir string
	logOut    io.Writer // Server side copy of render logs, nil to discard
}

// NewServer creates a new web server
func NewServer(port int, scenesDir string, logOut io.Writer) *Server {
	return &Server{port: port, scenesDir: scenesDir, logOut: logOut}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting web server on http://localhost%s", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by the scene files in scenesDir
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, append(scene.BuiltinScenes(), files...))
}

// handleSceneConfig returns the default sampling and camera settings of a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scene")
	if name == "" {
		name = "default"
	}

	sceneObj, err := scene.Load(name, s.scenesDir, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sampling := sceneObj.SamplingConfig
	camera := sceneObj.CameraConfig
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": name,
		"defaults": map[string]interface{}{
			"width":           sampling.Width,
			"height":          sampling.Height,
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
			"gamma":           sampling.Gamma,
		},
		"camera": map[string]interface{}{
			"lookFrom":      [3]float64{camera.LookFrom.X, camera.LookFrom.Y, camera.LookFrom.Z},
			"lookAt":        [3]float64{camera.LookAt.X, camera.LookAt.Y, camera.LookAt.Z},
			"vfov":          camera.VFov,
			"aperture":      camera.Aperture,
			"focusDistance": camera.FocusDistance,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": 1, "max": maxImageSide},
			"height":          map[string]int{"min": 1, "max": maxImageSide},
			"samplesPerPixel": map[string]int{"min": 1, "max": maxSamples},
			"maxDepth":        map[string]int{"min": 0, "max": maxDepth},
		},
	})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
