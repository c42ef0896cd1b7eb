// Package server exposes the engine over HTTP, with a websocket endpoint that
// streams search progress.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/interop"
)

var ErrBusy = errors.New("server: too many searches in progress")

type Server struct {
	engineCfg engine.Config
	cfg       config.ServerConfig
	logger    zerolog.Logger
	searches  chan struct{} // semaphore
	router    chi.Router
}

type configResponse struct {
	Engine engine.Config       `json:"engine"`
	Server config.ServerConfig `json:"server"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func New(engineCfg engine.Config, cfg config.ServerConfig, logger zerolog.Logger) *Server {
	s := &Server{
		engineCfg: engineCfg,
		cfg:       cfg,
		logger:    logger,
		searches:  make(chan struct{}, cfg.MaxConcurrentSearches),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, configResponse{Engine: s.engineCfg, Server: s.cfg})
	})

	r.Post("/api/move", s.handleMove)
	r.Get("/api/ws", s.handleWS)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
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
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// acquire takes a search slot, waiting until ctx is done.
func (s *Server) acquire(ctx context.Context) error {
	select {
	case s.searches <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrBusy
	}
}

func (s *Server) release() {
	<-s.searches
}

func (s *Server) search(ctx context.Context, req interop.Request, observer engine.Observer) (interop.Reply, error) {
	if err := s.acquire(ctx); err != nil {
		return interop.Reply{}, err
	}
	defer s.release()

	cfg := s.engineCfg
	return interop.Run(req, interop.Options{
		Config:   &cfg,
		Observer: observer,
		MaxDepth: s.cfg.MaxDepth,
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req interop.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "bad_request"})
		return
	}

	reply, err := s.search(r.Context(), req, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("fen", req.Fen).Int("depth", req.Depth).Msg("search-failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func statusFor(err error) (int, string) {
	if errors.Is(err, ErrBusy) {
		return http.StatusServiceUnavailable, "busy"
	}
	kind := interop.ErrorKind(err)
	switch kind {
	case "invalid_fen", "invalid_depth":
		return http.StatusBadRequest, kind
	case "no_legal_moves":
		return http.StatusUnprocessableEntity, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, kind := statusFor(err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
