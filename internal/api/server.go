// Package api exposes the seller assistant over HTTP: a streaming chat
// endpoint, thread history, fact management, and SOP previews.
package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumian-ai/sellerchat/internal/facts"
	"github.com/lumian-ai/sellerchat/internal/log"
	"github.com/lumian-ai/sellerchat/internal/thread"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      log.Logger
	Responder   Responder      // Required: turn orchestrator
	ThreadStore thread.Store   // Required
	FactStore   *facts.Store   // Required
	Documents   DocumentStore  // Optional: nil disables the SOP preview endpoint
	Pool        *pgxpool.Pool  // Optional: nil disables pool stats in /ready
	CORSOrigins []string       // Allowed origins for CORS
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Responder == nil {
		return nil, errors.New("responder is required")
	}
	if cfg.ThreadStore == nil {
		return nil, errors.New("thread store is required")
	}
	if cfg.FactStore == nil {
		return nil, errors.New("fact store is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	logger := cfg.Logger

	ch := &chatHandler{
		responder: cfg.Responder,
		store:     cfg.ThreadStore,
		logger:    logger,
	}
	tr := &threadsHandler{store: cfg.ThreadStore, logger: logger}
	fh := &factsHandler{store: cfg.FactStore, logger: logger}

	mux := http.NewServeMux()

	// Chat
	mux.HandleFunc("POST /v1/chat/stream", ch.Stream)

	// Threads
	mux.HandleFunc("POST /v1/threads", tr.create)
	mux.HandleFunc("GET /v1/threads/{id}", tr.get)
	mux.HandleFunc("GET /v1/threads/{id}/items", tr.items)

	// Facts
	mux.HandleFunc("GET /v1/facts", fh.list)
	mux.HandleFunc("POST /v1/facts/{id}/save", fh.save)
	mux.HandleFunc("POST /v1/facts/{id}/discard", fh.discard)

	// SOP preview (optional; only registered when a document store is wired)
	if cfg.Documents != nil {
		sh := &sopsHandler{documents: cfg.Documents, logger: logger}
		mux.HandleFunc("GET /v1/sops/{id}", sh.get)
	}

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Use a top-level mux to separate health probes from middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.Handle("GET /ready", readiness(cfg.Pool, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
