// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game
//   - GET  /daily/leaderboard → best results for today (or a given date)
//
// Everyone gets the same layout on a given date (seeded from date + salt).
// A named player scores once per day. Resuming needs the live game's token
// and returns the same game with a fresh one. Clicks go through the regular
// POST /game/select.

package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/daily"
	"github.com/robalobadob/pairs/internal/results"
	"github.com/robalobadob/pairs/internal/store"
)

// dailyServer tracks which session a named player is using today.
type dailyServer struct {
	mu       sync.Mutex
	sessions map[string]string // player|date → session ID
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{sessions: make(map[string]string)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

type dailyNewReq struct {
	Player string `json:"player"`
}

// handleDailyNew starts today's game.
//   - A named player who already scored today gets 409 already_played.
//   - A named player with a live session today gets that session back, but
//     only when presenting its token; otherwise 409 daily_in_progress.
//   - Anyone else gets a new session on today's layout.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
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
	b, ok := s.boards.Lookup(s.cfg.DailyBoard)
	if !ok {
		log.Error().Str("board", s.cfg.DailyBoard).Msg("daily board missing from catalog")
		writeError(w, http.StatusInternalServerError, "daily_unavailable")
		return
	}
	date := daily.DateKey(s.clock())
	named := player != anonymousPlayer

	if named {
		played, err := s.results.PlayedDaily(r.Context(), player, date)
		if err != nil {
			log.Error().Err(err).Msg("daily lookup")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "already_played", "date": date})
			return
		}
		if sess := s.daily.live(r.Context(), s.store, player, date); sess != nil {
			if err := s.tokens.verify(bearer(r), sess.ID); err != nil {
				log.Ctx(r.Context()).Debug().Err(err).Str("player", player).Msg("daily resume refused")
				writeJSON(w, http.StatusConflict, map[string]string{"error": "daily_in_progress", "date": date})
				return
			}
			s.writeToken(w, sess)
			return
		}
	}

	e, err := daily.NewEngine(date, s.cfg.DailySalt, b)
	if err != nil {
		log.Error().Err(err).Msg("daily engine")
		writeError(w, http.StatusInternalServerError, "daily_unavailable")
		return
	}
	sess := store.NewSession(e, b, player)
	sess.Daily = date
	if named {
		s.daily.remember(player, date, sess.ID)
	}
	s.startSession(w, r, sess)
}

// live returns the player's live session for date, if any.
func (d *dailyServer) live(ctx context.Context, st store.Store, player, date string) *store.Session {
	key := player + "|" + date
	d.mu.Lock()
	id, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok {
		return nil
	}
	sess, err := st.Get(ctx, id)
	if err != nil {
		d.mu.Lock()
		delete(d.sessions, key)
		d.mu.Unlock()
		return nil
	}
	return sess
}

func (d *dailyServer) remember(player, date, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[player+"|"+date] = id
}

type dailyLBRes struct {
	Date string        `json:"date"`
	Top  []results.Row `json:"top"`
}

// handleDailyLeaderboard returns the leaderboard for ?date= (default today).
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.clock())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.results.DailyLeaderboard(r.Context(), date, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, dailyLBRes{Date: date, Top: rows})
}
