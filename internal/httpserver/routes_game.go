// internal/httpserver/routes_game.go
//
// HTTP routes for a single game.
// Exposes endpoints under /game:
//   - POST   /game/new          → start a preset or custom board, returns a game token
//   - POST   /game/select       → apply one click
//   - GET    /game/{id}         → render-safe snapshot
//   - DELETE /game/{id}         → abandon
//   - POST   /game/{id}/pause   → stop the clock and lock the board
//   - POST   /game/{id}/resume  → restart the clock
//
// Every route after /game/new needs the game's Bearer token.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/boards"
	"github.com/robalobadob/pairs/internal/game"
	"github.com/robalobadob/pairs/internal/results"
	"github.com/robalobadob/pairs/internal/store"
)

// maxCells bounds custom board sizes.
const maxCells = 400

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/select", s.handleSelect)
		r.Get("/{id}", s.handleSnapshot)
		r.Delete("/{id}", s.handleAbandon)
		r.Post("/{id}/pause", s.handlePause)
		r.Post("/{id}/resume", s.handleResume)
	})
}

// newGameReq asks for a preset board by name, or a custom rows x cols board.
type newGameReq struct {
	Board  string `json:"board"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Player string `json:"player"`
}

type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Board     string    `json:"board"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Pairs     int       `json:"pairs"`
	Daily     string    `json:"daily,omitempty"`
}

// handleNewGame builds a shuffled board and hands out its token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	player, err := normalizePlayer(req.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_player")
		return
	}

	b, ok := s.resolveBoard(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_board")
		return
	}
	// compare each side first so the product cannot overflow
	if b.Rows > maxCells || b.Cols > maxCells || (b.Rows > 0 && b.Cols > 0 && b.Rows*b.Cols > maxCells) {
		writeError(w, http.StatusBadRequest, "board_too_large")
		return
	}

	e, err := game.New(b.Rows, b.Cols)
	switch {
	case errors.Is(err, game.ErrInvalidDimensions):
		writeError(w, http.StatusBadRequest, "invalid_dimensions")
		return
	case errors.Is(err, game.ErrOddBoard):
		writeError(w, http.StatusBadRequest, "odd_board")
		return
	case errors.Is(err, game.ErrBoardTooLarge):
		writeError(w, http.StatusBadRequest, "board_too_large")
		return
	case err != nil:
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}

	sess := store.NewSession(e, b, player)
	s.startSession(w, r, sess)
}

// resolveBoard picks a custom size when both dimensions are given,
// otherwise a catalog preset (the default one when no name is given).
func (s *Server) resolveBoard(req newGameReq) (boards.Board, bool) {
	if req.Rows != 0 || req.Cols != 0 {
		return boards.Board{Name: fmt.Sprintf("custom-%dx%d", req.Rows, req.Cols), Rows: req.Rows, Cols: req.Cols}, true
	}
	name := req.Board
	if name == "" {
		name = s.cfg.DefaultBoard
	}
	return s.boards.Lookup(name)
}

// startSession stores sess and writes its token.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.writeToken(w, sess)
	hlog.FromRequest(r).Info().
		Str("gameId", sess.ID).
		Str("board", sess.Board.Name).
		Str("player", sess.Player).
		Str("daily", sess.Daily).
		Msg("game started")
}

func (s *Server) writeToken(w http.ResponseWriter, sess *store.Session) {
	tok, exp, err := s.tokens.issue(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:    sess.ID,
		Token:     tok,
		ExpiresAt: exp.UTC(),
		Board:     sess.Board.Name,
		Rows:      sess.Board.Rows,
		Cols:      sess.Board.Cols,
		Pairs:     sess.Board.Pairs(),
		Daily:     sess.Daily,
	})
}

type selectReq struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// handleSelect applies one click. Ignored clicks still answer 200 with
// status "noop"; they are part of normal play, not client errors.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.authorizedSession(w, r, req.GameID)
	if !ok {
		return
	}

	out := sess.Select(req.Row, req.Col)
	if out.Won && out.Status == game.Match {
		s.recordWin(r.Context(), sess, out)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSnapshot returns the render-safe board state.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleAbandon drops a game; a new one must be started with /game/new.
func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handlePause stops the clock; clicks are ignored until /resume.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := sess.Pause(); errors.Is(err, store.ErrFinished) {
		writeError(w, http.StatusConflict, "game_finished")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleResume restarts the clock of a paused game.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Resume()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// authorizedSession loads the session for id after checking the Bearer
// token. It writes the error response itself and reports false on failure.
func (s *Server) authorizedSession(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id")
		return nil, false
	}
	if err := s.tokens.verify(bearer(r), id); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("gameId", id).Msg("token rejected")
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return sess, true
}

// recordWin stores the summary of a won game. Failures are logged only:
// the player has still won.
func (s *Server) recordWin(ctx context.Context, sess *store.Session, out store.Outcome) {
	res := results.Result{
		GameID:    sess.ID,
		Board:     sess.Board.Name,
		Rows:      sess.Board.Rows,
		Cols:      sess.Board.Cols,
		Player:    sess.Player,
		Daily:     sess.Daily,
		Moves:     out.Moves,
		Attempts:  out.Attempts,
		ElapsedMs: out.Elapsed,
	}
	logger := log.Ctx(ctx).With().Str("gameId", sess.ID).Logger()
	inserted, err := s.results.Record(ctx, res)
	if err != nil {
		logger.Warn().Err(err).Msg("record result")
		return
	}
	logger.Info().
		Int("moves", out.Moves).
		Int64("elapsedMs", out.Elapsed).
		Bool("scored", inserted).
		Msg("game won")
}
