package api

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// APIServer represents the REST API server
type APIServer struct {
	port   int
	server *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(port int) *APIServer {
	return &APIServer{
		port: port,
	}
}

// Start starts the REST API server
func (s *APIServer) Start() error {
	handler := NewAPIHandler()

	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/api/v1/reproject", handler.ReprojectHandler)
	mux.HandleFunc("/api/v1/export", handler.ExportHandler)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	log.Info().Int("port", s.port).Msg("starting REST API server")
	return s.server.ListenAndServe()
}

// Stop stops the REST API server
func (s *APIServer) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
