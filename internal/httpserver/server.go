// internal/httpserver/server.go
//
// HTTP bridge between a local presentation layer and the pair engine.
// Responsibilities:
//   - Router + middleware (request IDs, access log, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health", "/about", "/boards".
//   - Game endpoints: POST /game/new, POST /game/select, GET/DELETE /game/{id},
//     POST /game/{id}/pause and /resume.
//   - Daily board endpoints mounted under /daily.
//   - Scoreboard endpoints mounted under /results.
//
// Notes:
//   - Game state lives only in the session store; finished games are
//     summarized into the results database.
//   - Game endpoints after /game/new require the game's Bearer token.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/boards"
	"github.com/robalobadob/pairs/internal/config"
	"github.com/robalobadob/pairs/internal/game"
	"github.com/robalobadob/pairs/internal/results"
	"github.com/robalobadob/pairs/internal/store"
)

// Server bundles router, session store, results store and board catalog.
type Server struct {
	r       *chi.Mux
	store   store.Store
	results *results.Store
	boards  *boards.Catalog
	cfg     config.Config
	tokens  tokenIssuer
	daily   *dailyServer
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, res *results.Store, catalog *boards.Catalog, cfg config.Config) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		results: res,
		boards:  catalog,
		cfg:     cfg,
		now:     time.Now,
	}
	s.tokens = tokenIssuer{secret: []byte(cfg.TokenSecret), ttl: cfg.TokenTTL, now: s.clock}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(cfg.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "pairs",
			"endpoints": []string{"/health", "/about", "/boards", "POST /game/new", "POST /game/select",
				"GET /game/{id}", "POST /game/{id}/pause", "POST /game/{id}/resume", "POST /daily/new", "/results/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/about", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"about": game.About()})
	})
	s.r.Get("/boards", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"default": s.cfg.DefaultBoard, "boards": s.boards.List()})
	})

	s.mountGame(s.r)
	s.mountDaily(s.r)
	s.mountResults(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on the configured address until ctx is canceled,
// then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// SweepSessions drops sessions idle for longer than the session TTL.
func (s *Server) SweepSessions(ctx context.Context) int {
	return s.store.Sweep(ctx, s.clock().Add(-s.cfg.SessionTTL))
}

func (s *Server) clock() time.Time { return s.now() }

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, dur time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("dur", dur).
		Msg("http")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// decodeJSON reads a small JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
