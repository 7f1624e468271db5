// internal/httpserver/routes_results.go
//
// Read-only scoreboard routes under /results:
//   - GET /results/leaderboard?board=&limit= → best regular games on a board
//   - GET /results/player/{name}             → stats and latest wins of a player

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// mountResults registers the scoreboard routes.
func (s *Server) mountResults(r chi.Router) {
	r.Route("/results", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/player/{name}", s.handlePlayer)
	})
}

// handleLeaderboard returns the best games for ?board= (default board
// when omitted). Custom sizes use their "custom-RxC" name.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board := r.URL.Query().Get("board")
	if board == "" {
		board = s.cfg.DefaultBoard
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.results.Leaderboard(r.Context(), board, limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"board": board, "top": rows})
}

// handlePlayer returns aggregate stats and the latest wins of a player.
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name, err := normalizePlayer(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_player")
		return
	}
	st, err := s.results.Stats(r.Context(), name)
	if err != nil {
		log.Error().Err(err).Msg("player stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	recent, err := s.results.Recent(r.Context(), name, 10)
	if err != nil {
		log.Error().Err(err).Msg("player recent")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": st, "recent": recent})
}
