// internal/httpserver/server.go
//
// HTTP server wiring for the scoreboard.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, access logs, panic recovery, timeouts).
//   - Public endpoints: "/health", GET "/" (landing page), POST "/" (mounts a new board).
//   - Board endpoints under /b/{id}: page, view, event stream, actions, close.
//   - Idle board sweeping for the lifetime of Run.
//
// Notes:
//   - The request timeout is not applied to the event stream, which is long-lived.
//   - Request contexts derive from the Run context so open streams end on shutdown.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scoreboard/internal/anim"
	"github.com/robalobadob/scoreboard/internal/board"
	"github.com/robalobadob/scoreboard/internal/config"
	"github.com/robalobadob/scoreboard/internal/store"
)

// Server bundles router, board registry and configuration.
type Server struct {
	r         *chi.Mux
	store     store.Store
	cfg       config.Config
	boardOpts []board.Option
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cfg config.Config) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		cfg:   cfg,
		boardOpts: []board.Option{
			board.WithDigitOptions(anim.WithDuration(cfg.AnimationDuration)),
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "boards": s.store.Len()})
	})

	s.r.Get("/", s.handleLanding)
	s.r.Post("/", s.handleMount)
	s.mountBoard(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Run serves HTTP on the configured address and sweeps idle boards until ctx
// is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go store.RunSweeper(ctx, s.store, s.cfg.SweepInterval, s.cfg.BoardIdleTTL)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// accessLog writes one line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// ------------------------------- helpers -----------------------------------

type errorRes struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body such as {"error":"not_found"}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorRes{Error: code})
}
