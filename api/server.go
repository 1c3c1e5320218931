package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bio-vision-lab/bacteria-detect/detect"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the route table and configures the HTTP server.
//
// Arguments:
//   - port: TCP port to listen on.
//   - detector: Loaded detection model; nil when startup loading failed.
//   - maxUploadBytes: Multipart memory limit for uploads.
//
// Returns:
//   - *Server: The configured, not yet started server.
func NewServer(port int, detector detect.Detector, maxUploadBytes int64) *Server {
	handler := NewHandler(detector, maxUploadBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.Root)
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/detect/", handler.Detect)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      withRequestID(withCORS(mux)),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// ListenAndServe starts serving; it blocks until the server stops.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
