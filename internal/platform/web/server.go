// Package web serves the duel to browser and bot clients over WebSocket
// and exposes read-only HTTP endpoints for status and match history.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
	"github.com/vovakirdan/tui-duel/internal/protocol"
	"github.com/vovakirdan/tui-duel/internal/storage"
)

// Connection timing.
const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 25 * time.Second
	readLimit    = 4 << 10 // Client frames are tiny
	maxNameLen   = 24
)

// Host is the part of multiplayer.Host the web transport needs.
type Host interface {
	Connect(s multiplayer.SessionHandle)
	Send(msg multiplayer.HostMessage)
	Status() duel.Snapshot
	Sessions() int
	Config() config.DuelConfig
}

// MatchStore reads stored results. *storage.Store satisfies it.
type MatchStore interface {
	RecentMatches(limit int) ([]storage.MatchRecord, error)
	PlayerRecord(name string) (*storage.PlayerRecord, error)
}

// Server is the HTTP and WebSocket front of a host.
type Server struct {
	addr     string
	host     Host
	store    MatchStore // nil disables the history endpoints
	logger   *log.Logger
	upgrader websocket.Upgrader
	srv      *http.Server

	mu    sync.Mutex
	conns map[*wsConn]struct{}
}

// NewServer creates a server for host. store and logger may be nil.
func NewServer(addr string, host Host, store MatchStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		addr:   addr,
		host:   host,
		store:  store,
		logger: logger,
		conns:  make(map[*wsConn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Any origin; bot clients send none.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/matches", s.handleMatches)
		r.Get("/players/{name}", s.handlePlayer)
	})

	return r
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting HTTP server", "address", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, closes open WebSockets and waits for
// plain handlers to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.conns {
		c.session.Close()
	}
	s.mu.Unlock()
	return err
}

func (s *Server) track(c *wsConn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *wsConn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	State    protocol.State `json:"state"`
	Sessions int            `json:"sessions"`
	TickHz   int            `json:"tickHz"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		State:    protocol.StateFromSnapshot(0, s.host.Status()),
		Sessions: s.host.Sessions(),
		TickHz:   s.host.Config().Timing.TickRate,
	})
}

// MatchResponse is one entry of GET /api/matches.
type MatchResponse struct {
	MatchID   string    `json:"matchId"`
	Player1   string    `json:"player1"`
	Player2   string    `json:"player2"`
	Score1    int       `json:"score1"`
	Score2    int       `json:"score2"`
	Winner    string    `json:"winner,omitempty"`
	EndReason string    `json:"endReason"`
	Rounds    int       `json:"rounds"`
	Duration  int       `json:"durationSecs"`
	PlayedAt  time.Time `json:"playedAt"`
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "match history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	matches, err := s.store.RecentMatches(limit)
	if err != nil {
		s.logger.Error("cannot load matches", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load matches")
		return
	}

	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		resp := MatchResponse{
			MatchID:   m.MatchID,
			Player1:   m.Player1Name,
			Player2:   m.Player2Name,
			Score1:    m.Score1,
			Score2:    m.Score2,
			EndReason: m.EndReason,
			Rounds:    m.Rounds,
			Duration:  m.DurationSecs,
			PlayedAt:  m.CreatedAt,
		}
		if m.WinnerID != "" {
			resp.Winner = m.Winner()
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "match history is disabled")
		return
	}

	name := chi.URLParam(r, "name")
	rec, err := s.store.PlayerRecord(name)
	if err != nil {
		s.logger.Error("cannot load player record", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load player record")
		return
	}
	if rec.Matches == 0 {
		writeError(w, http.StatusNotFound, "no matches for "+name)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
