package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/boards"
	"github.com/robalobadob/pairs/internal/config"
	"github.com/robalobadob/pairs/internal/httpserver"
	"github.com/robalobadob/pairs/internal/results"
	"github.com/robalobadob/pairs/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg)

	catalog, err := boards.Load(cfg.BoardsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load boards")
	}
	for _, name := range []string{cfg.DefaultBoard, cfg.DailyBoard} {
		if _, ok := catalog.Lookup(name); !ok {
			log.Fatal().Str("board", name).Msg("configured board is not in the catalog")
		}
	}

	db, err := results.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open results db")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(store.NewMemoryStore(), results.NewStore(db), catalog, cfg)
	go sweep(ctx, srv, cfg.SessionTTL)

	log.Info().Str("addr", cfg.Addr()).Int("boards", len(catalog.List())).Msg("starting pairs server")
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// sweep drops idle sessions until ctx is done.
func sweep(ctx context.Context, srv *httpserver.Server, ttl time.Duration) {
	every := ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := srv.SweepSessions(ctx); n > 0 {
				log.Info().Int("sessions", n).Msg("swept idle games")
			}
		}
	}
}
