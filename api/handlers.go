// Package api - HTTP surface of the bacteria detection service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/bio-vision-lab/bacteria-detect/detect"
	"github.com/bio-vision-lab/bacteria-detect/images"
)

// Handler serves the detection endpoints. The detector is nil when the model
// failed to load at startup; every detection call then returns 503.
type Handler struct {
	detector       detect.Detector
	maxUploadBytes int64
	startedAt      time.Time
}

// NewHandler creates the endpoint handler.
func NewHandler(detector detect.Detector, maxUploadBytes int64) *Handler {
	return &Handler{
		detector:       detector,
		maxUploadBytes: maxUploadBytes,
		startedAt:      time.Now(),
	}
}

// Root handles GET / with service status and endpoint information.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	payload := map[string]interface{}{
		"message":      "Bacteria Detection API is running",
		"model_loaded": h.detector != nil,
		"endpoints": map[string]string{
			"detect": "/detect/ (POST) - Upload image for bacteria detection",
			"health": "/health - Service health",
		},
		"system": h.systemStats(),
	}
	if h.detector != nil {
		payload["model"] = h.detector.ModelInfo()
	}
	respondJSON(w, http.StatusOK, payload)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.detector == nil {
		status = "model_not_loaded"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"model_loaded": h.detector != nil,
	})
}

// Detect handles POST /detect/: multipart image in, detection report out.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.detector == nil {
		respondError(w, http.StatusServiceUnavailable, "Model not loaded. Please check server logs.")
		return
	}

	// MaxBytesReader enforces the cap; the ParseMultipartForm argument is
	// only the in-memory threshold before spilling to disk.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("File too large, limit is %d bytes", maxErr.Limit))
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer func() {
		// Large uploads may have spilled to disk; remove them before returning.
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Printf("⚠️ Could not clean up upload temp files: %v", err)
			}
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if err := images.ValidateFilename(header.Filename); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error processing image")
		return
	}

	log.Printf("🔍 Processing image: %s (%d bytes)", header.Filename, len(data))

	img, _, err := images.Decode(data)
	if err != nil {
		log.Printf("❌ Error decoding image %s: %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, "Error processing image")
		return
	}

	boxes, err := h.detector.Detect(img)
	if err != nil {
		log.Printf("❌ Error processing image %s: %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, "Error processing image")
		return
	}

	bounds := img.Bounds()
	report := detect.BuildReport(header.Filename, len(data), bounds.Dx(), bounds.Dy(), boxes)

	log.Printf("✅ Detection complete: %d bacteria found", report.BacteriaCount)
	respondJSON(w, http.StatusOK, report)
}

// systemStats reports process-level resource usage for the info endpoint.
func (h *Handler) systemStats() map[string]interface{} {
	stats := map[string]interface{}{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		stats["rss_mb"] = float64(mem.RSS) / 1024 / 1024
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats["cpu_percent"] = cpu
	}
	return stats
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
