// Package api exposes the briefing pipeline over HTTP. The demo
// endpoint accepts cross-origin POSTs from the portfolio frontend, so
// every response carries permissive CORS headers and preflight requests
// are answered with an empty 200.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/book-expert/audio-briefing-service/internal/core"
	"github.com/book-expert/audio-briefing-service/internal/pipeline"
	"github.com/book-expert/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	serviceName       = "audio-briefing-service"
	successMessage    = "Email sent successfully with personalized audio report!"
	methodNotAllowed  = "Method not allowed"
	readHeaderTimeout = 10 * time.Second
)

// Server serves the demo endpoint and a health probe.
type Server struct {
	pipeline *pipeline.Pipeline
	log      *logger.Logger
	router   chi.Router
	port     int
}

// NewServer builds the router around the given pipeline.
func NewServer(p *pipeline.Pipeline, port int, log *logger.Logger) *Server {
	srv := &Server{
		pipeline: p,
		log:      log,
		router:   nil,
		port:     port,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(corsHeaders)

	router.Get("/api/v1/health", srv.handleHealth)
	router.HandleFunc("/*", srv.handleSendDemo)
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(log, w, http.StatusMethodNotAllowed, map[string]string{"error": methodNotAllowed})
	})

	srv.router = router

	return srv
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.log.System("Listening on %s", server.Addr)

	err := server.ListenAndServe()
	if err != nil {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// handleSendDemo gates the method, decodes the request and runs the
// pipeline. The method gate lives here rather than in the router so
// that every path answers the same way, matching the endpoint's
// original deployment as a single catch-all function.
func (s *Server) handleSendDemo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

		return
	case http.MethodPost:
	default:
		writeJSON(s.log, w, http.StatusMethodNotAllowed, map[string]string{"error": methodNotAllowed})

		return
	}

	// A malformed body decodes to empty fields and fails validation,
	// the same way the original treated any falsy payload.
	var req core.BriefingRequest

	_ = json.NewDecoder(r.Body).Decode(&req)

	result, stageErr := s.pipeline.Run(r.Context(), req)
	if stageErr != nil {
		s.writeStageError(w, stageErr)

		return
	}

	s.log.Info(
		"Briefing dispatched to %s (%s, %d audio bytes)",
		result.Recipient,
		result.AttachmentName,
		result.AudioBytes,
	)

	writeJSON(s.log, w, http.StatusOK, map[string]any{
		"success": true,
		"message": successMessage,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.log, w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
	})
}

// writeStageError maps the pipeline's error taxonomy onto the inbound
// HTTP contract. Only internal errors carry the underlying message to
// the caller, under "details"; upstream diagnostics stay in the log.
func (s *Server) writeStageError(w http.ResponseWriter, stageErr *pipeline.StageError) {
	s.log.Error("Request failed while %s: %v", stageErr.Stage, stageErr)

	switch stageErr.Kind {
	case pipeline.KindInput:
		writeJSON(s.log, w, http.StatusBadRequest, map[string]string{"error": stageErr.Message})
	case pipeline.KindInternal:
		writeJSON(s.log, w, http.StatusInternalServerError, map[string]string{
			"error":   stageErr.Message,
			"details": stageErr.Unwrap().Error(),
		})
	case pipeline.KindConfig, pipeline.KindUpstream:
		fallthrough
	default:
		writeJSON(s.log, w, http.StatusInternalServerError, map[string]string{"error": stageErr.Message})
	}
}

// corsHeaders sets the permissive cross-origin headers on every
// response, preflight or not.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next.ServeHTTP(w, r)
	})
}

func writeJSON(log *logger.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Error("Failed to encode response body: %v", err)
	}
}
