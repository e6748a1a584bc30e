// internal/httpserver/routes_board.go
//
// HTTP routes for a mounted board.
//   - GET  /                          → landing page (creates nothing)
//   - POST /                          → mount a new board and redirect to its page
//   - GET  /b/{id}                    → render the board page
//   - GET  /b/{id}/view               → current view as JSON
//   - GET  /b/{id}/events             → view stream (Server-Sent Events)
//   - POST /b/{id}/increment/{team}   → tap on a team region
//   - POST /b/{id}/decrement/{team}   → decrement control
//   - POST /b/{id}/reset              → reset control
//   - POST /b/{id}/undo               → undo control
//   - POST /b/{id}/actions            → any action as {"kind","team"}
//   - POST /b/{id}/close              → unmount
//
// Every action answers 200 with {"changed","view"}; boundary no-ops
// (decrement at zero, undo with empty history) report changed=false.

package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scoreboard/assets"
	"github.com/robalobadob/scoreboard/internal/board"
	"github.com/robalobadob/scoreboard/internal/score"
	"github.com/robalobadob/scoreboard/internal/store"
)

// actionReq is the body of POST /b/{id}/actions.
type actionReq struct {
	Kind string `json:"kind"`
	Team string `json:"team"`
}

// actionRes is returned by every action endpoint.
type actionRes struct {
	Changed bool       `json:"changed"`
	View    board.View `json:"view"`
}

// mountBoard registers all /b/{id} routes.
func (s *Server) mountBoard(r chi.Router) {
	r.Route("/b/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(s.cfg.RequestTimeout))
			r.Get("/", s.handlePage)
			r.Get("/view", s.handleView)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireBoardToken)
			r.Get("/events", s.handleEvents)

			r.Group(func(r chi.Router) {
				r.Use(chimw.Timeout(s.cfg.RequestTimeout))
				r.Post("/increment/{team}", s.handleAction(score.KindIncrement))
				r.Post("/decrement/{team}", s.handleAction(score.KindDecrement))
				r.Post("/reset", s.handleAction(score.KindReset))
				r.Post("/undo", s.handleAction(score.KindUndo))
				r.Post("/actions", s.handleActions)
				r.Post("/close", s.handleClose)
			})
		})
	})
}

// handleMount creates a board, hands the browser its token, and redirects to the page.
func (s *Server) handleMount(w http.ResponseWriter, r *http.Request) {
	b := board.New(s.boardOpts...)
	if err := s.store.Save(r.Context(), b); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save board")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signBoardToken(b.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign board token")
		_ = s.store.Delete(r.Context(), b.ID)
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setBoardCookie(w, b.ID, tok, exp)
	log.Info().Str("board", b.ID).Int("mounted", s.store.Len()).Msg("board mounted")
	http.Redirect(w, r, "/b/"+b.ID, http.StatusSeeOther)
}

// handleLanding serves the start page. Boards are only mounted by its POST so
// that prefetchers and crawlers following links never create one.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := assets.RenderLanding(&buf); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render landing")
		writeError(w, http.StatusInternalServerError, "render_failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handlePage renders the board; unknown boards start over with a fresh mount.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	b.Touch()

	var buf bytes.Buffer
	if err := assets.RenderBoard(&buf, b.View()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("board", b.ID).Msg("render board")
		writeError(w, http.StatusInternalServerError, "render_failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleView returns the current view as JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.View())
}

// handleAction builds the handler for one fixed action kind. Team-scoped kinds
// read {team} from the route.
func (s *Server) handleAction(kind score.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := score.Action{Kind: kind}
		if kind == score.KindIncrement || kind == score.KindDecrement {
			team, err := score.ParseTeam(chi.URLParam(r, "team"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_team")
				return
			}
			a.Team = team
		}
		s.dispatch(w, r, a)
	}
}

// handleActions accepts any action as JSON.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	var req actionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	a, err := parseAction(req)
	if err != nil {
		code := "bad_action"
		if errors.Is(err, score.ErrUnknownTeam) {
			code = "bad_team"
		}
		writeError(w, http.StatusBadRequest, code)
		return
	}
	s.dispatch(w, r, a)
}

// handleClose unmounts the board.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	s.clearBoardCookie(w, id)
	log.Info().Str("board", id).Int("mounted", s.store.Len()).Msg("board unmounted")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleEvents streams the board view: one frame on connect, one per change or
// settled animation, and a heartbeat comment in between.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := b.Subscribe()
	defer cancel()

	initial, err := json.Marshal(b.View())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("marshal view")
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()
	b.Touch()

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()
			b.Touch()
		case msg, open := <-ch:
			if !open {
				_, _ = w.Write([]byte("event: closed\ndata: {}\n\n"))
				flusher.Flush()
				return
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// dispatch applies a to the board named in the route and writes the result.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, a score.Action) {
	b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	v, changed := b.Dispatch(a)
	writeJSON(w, http.StatusOK, actionRes{Changed: changed, View: v})
}

// lookup resolves {id} or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*board.Board, bool) {
	b, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return b, true
}

// parseAction validates a JSON action.
func parseAction(req actionReq) (score.Action, error) {
	kind, err := score.ParseKind(req.Kind)
	if err != nil {
		return score.Action{}, err
	}
	a := score.Action{Kind: kind}
	if kind == score.KindIncrement || kind == score.KindDecrement {
		team, err := score.ParseTeam(req.Team)
		if err != nil {
			return score.Action{}, err
		}
		a.Team = team
	}
	return a, nil
}
