// Package server exposes the storefront over HTTP: JSON catalog endpoints
// and a chat API that streams assistant replies as server-sent events.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"

	"buyxtra/internal/catalog"
	"buyxtra/internal/chat"
	"buyxtra/internal/logger"
)

// Options configures a Server.
type Options struct {
	Model         string
	StreamTimeout time.Duration
}

// Server holds the catalog, the shared stream client, and the live chat
// sessions. One chat session maps to one controller; sessions are
// independent of each other.
type Server struct {
	store    *catalog.Store
	client   chat.StreamClient
	opts     Options
	sessions *sessionRegistry
	hlog     *charmlog.Logger
}

// New creates a Server over the given catalog and stream client.
func New(store *catalog.Store, client chat.StreamClient, opts Options) *Server {
	return &Server{
		store:    store,
		client:   client,
		opts:     opts,
		sessions: newSessionRegistry(),
		hlog:     logger.NewStyledLogger("HTTP"),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/home", s.handleHome)
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("GET /api/brands", s.handleListBrands)

	mux.HandleFunc("POST /api/chat/sessions", s.handleCreateChatSession)
	mux.HandleFunc("POST /api/chat/sessions/{id}/messages", s.handleSendMessage)
	mux.HandleFunc("GET /api/chat/sessions/{id}/log", s.handleChatLog)
	mux.HandleFunc("DELETE /api/chat/sessions/{id}", s.handleCloseChatSession)

	return s.logRequests(mux)
}

// logRequests is the request logging middleware.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.hlog.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
