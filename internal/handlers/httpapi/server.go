// Package httpapi exposes the feed over HTTP: a pull endpoint, a WebSocket
// push endpoint, stats, health and the static client.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gabapcia/blockpulse/internal/broadcast"
	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/gorilla/websocket"
)

// ErrMissingDependency is returned by NewServer when feed or hub is nil.
var ErrMissingDependency = errors.New("http server dependencies must not be nil")

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
	fetchTimeout      = 15 * time.Second
)

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Feed           txfeed.Stats `json:"feed"`
	ActiveSessions int          `json:"activeSessions"`
}

// Server serves the HTTP API.
type Server struct {
	feed      txfeed.Service
	hub       broadcast.Service
	staticDir string
	upgrader  websocket.Upgrader
}

type config struct {
	staticDir       string
	allowAnyOrigin  bool
	readBufferSize  int
	writeBufferSize int
}

// Option configures NewServer.
type Option func(*config)

// WithStaticDir serves the client from dir. When dir does not exist the
// embedded fallback page is served instead.
func WithStaticDir(dir string) Option {
	return func(c *config) {
		c.staticDir = dir
	}
}

// WithAnyOrigin accepts WebSocket upgrades from any origin.
func WithAnyOrigin() Option {
	return func(c *config) {
		c.allowAnyOrigin = true
	}
}

// NewServer creates the API server.
func NewServer(feed txfeed.Service, hub broadcast.Service, opts ...Option) (*Server, error) {
	if feed == nil || hub == nil {
		return nil, ErrMissingDependency
	}

	cfg := config{
		readBufferSize:  1024,
		writeBufferSize: 16 * 1024,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.readBufferSize,
		WriteBufferSize: cfg.writeBufferSize,
	}
	if cfg.allowAnyOrigin {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	return &Server{
		feed:      feed,
		hub:       hub,
		staticDir: cfg.staticDir,
		upgrader:  upgrader,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions", s.handleTransactions)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /socket", s.handleSocket)
	mux.Handle("GET /", staticHandler(s.staticDir))
	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "http server shutdown", "error", err)
		}
	}()

	logger.Info(ctx, "http server listening", "http.addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	txs, err := s.feed.FetchLatestTransactions(ctx)
	if err != nil {
		logger.Error(ctx, "fetch transactions for pull request", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatsResponse{
		Feed:           s.feed.Stats(),
		ActiveSessions: s.hub.ActiveSessions(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
