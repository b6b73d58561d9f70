package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/ai"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/learning"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Log)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		log.Warn().Msg("SESSION_SECRET is the development default; set it in production")
	}

	catalog, err := words.Load(cfg.Catalog.CurriculumPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word catalog")
	}
	log.Info().Strs("categories", catalog.Names()).Msg("word catalog loaded")

	var gen learning.Generator
	if client, err := ai.New(cfg.AI); err == nil {
		gen = client
		log.Info().Str("model", cfg.AI.Model).Msg("AI collaborator enabled")
	} else {
		log.Warn().Err(err).Msg("AI collaborator disabled; using fallback learning info")
	}
	learner := learning.NewService(gen)

	sessions, err := openSessions(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer sessions.Close()

	loc, _ := cfg.Daily.Location() // validated in config.Load
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))

	index, err := assets.IndexHTML()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read index page")
	}

	srv := httpserver.New(*cfg, httpserver.Deps{
		Catalog:  catalog,
		Games:    game.NewEngine(catalog, learner, rng),
		Daily:    daily.NewEngine(catalog, learner, loc, time.Now),
		Sessions: sessions,
		Index:    index,
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", cfg.Server.Port).Str("sessions", cfg.Session.Backend).Msg("starting hangman server")
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-idleConnsClosed
	log.Info().Msg("server shutdown complete")
}

// setupLogging applies the configured level and output format to the global logger.
func setupLogging(cfg config.LogConfig) {
	if lvl, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openSessions builds the configured session backend. The sqlite backend
// drops sessions idle for longer than the cookie lifetime on startup.
func openSessions(cfg config.SessionConfig) (store.Store, error) {
	if cfg.Backend != "sqlite" {
		return store.NewMemoryStore(), nil
	}
	db, err := store.OpenSQLite(cfg.DSN)
	if err != nil {
		return nil, err
	}
	n, err := db.Prune(context.Background(), time.Now().Add(-cfg.TTL))
	if err != nil {
		log.Warn().Err(err).Msg("prune sessions")
	} else if n > 0 {
		log.Info().Int64("removed", n).Msg("pruned expired sessions")
	}
	return db, nil
}
