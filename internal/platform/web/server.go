// Package web serves a read-only spectator API for the games in a lobby:
// a JSON listing, the latest frame of a game, and a websocket that pushes
// frames as they are published.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"

	"github.com/MilleBA/Pac-Man/internal/lobby"
)

// Directory is where the server finds games. *lobby.Lobby satisfies it.
type Directory interface {
	List() []lobby.Info
	Get(id lobby.GameID) (*lobby.Game, bool)
}

// Server routes spectator requests.
type Server struct {
	dir      Directory
	router   *way.Router
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer creates a server over dir. logger may be nil.
func NewServer(dir Directory, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		dir:    dir,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/api/sessions", s.handleList)
	s.router.HandleFunc("GET", "/api/sessions/:id/frame", s.handleFrame)
	s.router.HandleFunc("GET", "/api/sessions/:id/stream", s.handleStream)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting spectator server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dir.List())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	game, ok := s.game(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, game.Runner().Frame())
}

// game resolves the :id parameter, answering 404 when it is unknown.
func (s *Server) game(w http.ResponseWriter, r *http.Request) (*lobby.Game, bool) {
	id := lobby.GameID(way.Param(r.Context(), "id"))
	game, ok := s.dir.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such session"})
		return nil, false
	}
	return game, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client may have gone away
	json.NewEncoder(w).Encode(v)
}
