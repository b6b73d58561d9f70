// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /api/daily:
//   - POST /api/daily/start  → start or resume today's game ({category?})
//   - GET  /api/daily/status → today's game for ?category= (created lazily)
//   - POST /api/daily/guess  → guess a letter ({category?, letter})
//
// Every player gets the same word per category per day; progress and streaks
// live in the player's session.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type dailyStartReq struct {
	Category string `json:"category"`
}

// mountDaily registers all /api/daily routes on r.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/api/daily", func(r chi.Router) {
		r.With(s.limiter.middleware).Post("/start", s.handleDailyStart)
		r.Get("/status", s.handleDailyStatus)
		r.With(s.limiter.middleware).Post("/guess", s.handleDailyGuess)
	})
}

func (s *Server) handleDailyStart(w http.ResponseWriter, r *http.Request) {
	var req dailyStartReq
	if !decodeBody(r, &req) {
		req = dailyStartReq{}
	}
	v, err := s.daily.Start(r.Context(), sessionFrom(r), req.Category)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	v, err := s.daily.Status(r.Context(), sessionFrom(r), r.URL.Query().Get("category"))
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDailyGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	decodeBody(r, &req)
	v, err := s.daily.Guess(r.Context(), sessionFrom(r), req.Category, req.Letter)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
