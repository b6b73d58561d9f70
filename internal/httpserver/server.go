// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, request log).
//   - Public endpoints: "/", "/health", "/api/categories".
//   - Random game endpoints: /api/start, /api/status, /api/guess, /api/ai-hint.
//   - Daily Challenge endpoints: mounted under /api/daily.
//   - Per-player session cookie (see session.go) and per-IP rate limiting on POSTs.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Game state lives in the player's session; the engines never see the store.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Deps are the collaborators a Server routes to.
type Deps struct {
	Catalog  *words.Catalog
	Games    *game.Engine
	Daily    *daily.Engine
	Sessions store.Store
	Index    []byte // page served at "/"
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	catalog  *words.Catalog
	games    *game.Engine
	daily    *daily.Engine
	sessions *sessionManager
	limiter  *ipLimiter
	index    []byte
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		catalog:  d.Catalog,
		games:    d.Games,
		daily:    d.Daily,
		sessions: newSessionManager(cfg.Session, d.Sessions),
		limiter:  newIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		index:    d.Index,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                           // add X-Request-ID
	s.r.Use(chimw.RealIP)                              // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                             // one log line per request
	s.r.Use(chimw.Recoverer)                           // recover from panics
	s.r.Use(chimw.Timeout(cfg.Server.RequestTimeout)) // bound handler time (AI calls included)
	s.r.Use(jsonContentType)                           // default JSON responses
	s.r.Use(cors(cfg.Server.ClientOrigin))             // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", s.handleIndex)
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "categories": s.catalog.Len()})
	})
	s.r.Get("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.catalog.Names())
	})

	// --- game routes (session-scoped) ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.sessions.middleware)

		r.With(s.limiter.middleware).Post("/api/start", s.handleStart)
		r.Get("/api/status", s.handleStatus)
		r.With(s.limiter.middleware).Post("/api/guess", s.handleGuess)
		r.With(s.limiter.middleware).Post("/api/ai-hint", s.handleAIHint)

		s.mountDaily(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// handleIndex serves the embedded client shell.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.index)
}

// ----------------------------- middleware ----------------------------------

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
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one zerolog line per request with status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("requestId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
