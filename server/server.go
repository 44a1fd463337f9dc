// Package server exposes the navigation controller over HTTP and WebSocket.
//
// Clients either open a session with POST /start and send its id with every
// POST /move, which keeps the cached path and mode between ticks, or send
// bare states and get a decision from a fresh controller. GET /ws streams
// move requests over one connection with one controller.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/brensch/snekpath/nav"
)

// Version is reported by GET /.
var Version = "dev"

const maxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Engine supplies the thresholds; its Size is replaced by each
	// request's board size.
	Engine     nav.Config
	Policy     nav.Policy
	SessionTTL time.Duration
	Logger     *slog.Logger
	Meter      metric.Meter
}

type Server struct {
	cfg      Config
	logger   *slog.Logger
	sessions *sessionStore
	metrics  *metrics

	mu     sync.Mutex
	cycles map[int]*nav.Cycle
}

func New(cfg Config) (*Server, error) {
	policy, err := nav.ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 10 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: newSessionStore(cfg.SessionTTL),
		metrics:  newMetrics(cfg.Meter),
		cycles:   make(map[int]*nav.Cycle),
	}, nil
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /move", s.handleMove)
	mux.HandleFunc("POST /end", s.handleEnd)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.sessions.janitor(ctx, s.cfg.SessionTTL/4+time.Second, func(n int) {
		s.metrics.sessionDelta(context.Background(), -int64(n))
		s.logger.Info("expired sessions", "count", n)
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("decision server listening", "addr", addr, "policy", s.cfg.Policy)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// controller builds a controller for an n×n board, sharing one cycle per
// size across sessions.
func (s *Server) controller(n int, policy nav.Policy) (*nav.Controller, error) {
	cfg := s.cfg.Engine
	cfg.Size = n
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	cycle, ok := s.cycles[n]
	if !ok {
		var err error
		cycle, err = nav.BuildCycle(n)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.cycles[n] = cycle
	}
	s.mu.Unlock()

	return nav.New(cfg, nav.WithCycle(cycle), nav.WithPolicy(policy))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sources := []string{
		string(nav.SourceAStar), string(nav.SourceCached), string(nav.SourceTail),
		string(nav.SourceShortcut), string(nav.SourceCycle), string(nav.SourceGreedy),
		string(nav.SourceFallback), string(nav.SourceDoomed),
	}
	writeJSON(w, http.StatusOK, InfoResponse{
		APIVersion: "1",
		Author:     "snekpath",
		Version:    Version,
		Policy:     string(s.cfg.Policy),
		Sources:    sources,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, r, "http", err)
		return
	}
	policy := s.cfg.Policy
	if req.Policy != "" {
		p, err := nav.ParsePolicy(req.Policy)
		if err != nil {
			s.badRequest(w, r, "http", err)
			return
		}
		policy = p
	}
	ctrl, err := s.controller(req.Size, policy)
	if err != nil {
		s.badRequest(w, r, "http", err)
		return
	}

	id := s.sessions.create(ctrl)
	s.metrics.sessionDelta(r.Context(), 1)
	s.logger.Info("session started", "session_id", id, "size", req.Size, "policy", policy)
	writeJSON(w, http.StatusOK, StartResponse{SessionID: id})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, r, "http", err)
		return
	}

	var (
		d   nav.Decision
		err error
	)
	start := time.Now()
	if sess, ok := s.sessions.get(req.SessionID); ok {
		sess.mu.Lock()
		d, err = sess.ctrl.Decide(req.State())
		sess.mu.Unlock()
	} else {
		var ctrl *nav.Controller
		ctrl, err = s.controller(req.Size, s.cfg.Policy)
		if err == nil {
			d, err = ctrl.Decide(req.State())
		}
	}
	if err != nil {
		s.badRequest(w, r, "http", err)
		return
	}
	elapsed := time.Since(start)
	s.metrics.decided(r.Context(), d, elapsed, "http")
	s.logger.Debug("move",
		"session_id", req.SessionID,
		"move", d.Direction,
		"source", d.Source,
		"mode", d.Mode,
		"elapsed", elapsed,
	)
	writeJSON(w, http.StatusOK, NewMoveResponse(d))
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req EndRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, r, "http", err)
		return
	}
	if !s.sessions.drop(req.SessionID) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown session"})
		return
	}
	s.metrics.sessionDelta(r.Context(), -1)
	s.logger.Info("session ended", "session_id", req.SessionID)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, transport string, err error) {
	s.metrics.reject(r.Context(), transport)
	s.logger.Debug("rejected request", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// NewMoveResponse converts a decision to its wire form.
func NewMoveResponse(d nav.Decision) MoveResponse {
	return MoveResponse{
		Move:      d.Direction.String(),
		Source:    string(d.Source),
		Mode:      string(d.Mode),
		Occupancy: d.Occupancy,
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
