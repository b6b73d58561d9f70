// internal/httpserver/routes_game.go
//
// Random-mode endpoints:
//   - POST /api/start   → start a game ({category?, difficulty?})
//   - GET  /api/status  → current game, auto-started with defaults if missing
//   - POST /api/guess   → guess a letter ({letter})
//   - POST /api/ai-hint → ask the AI collaborator for an extra hint

package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/ai"
	"github.com/robalobadob/hangman/internal/game"
)

type startReq struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type guessReq struct {
	Category string `json:"category"` // daily only
	Letter   string `json:"letter"`
}

// aiHintRes is the body of every /api/ai-hint response.
type aiHintRes struct {
	Success     bool   `json:"success"`
	Hint        string `json:"hint,omitempty"`
	AIHintsUsed int    `json:"aiHintsUsed,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if !decodeBody(r, &req) {
		req = startReq{}
	}
	st, err := s.games.Start(r.Context(), sessionFrom(r), req.Category, req.Difficulty)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.View())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Status(r.Context(), sessionFrom(r))
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.View())
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	decodeBody(r, &req)
	st, err := s.games.Guess(r.Context(), sessionFrom(r), req.Letter)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.View())
}

// handleAIHint maps collaborator failures to distinct statuses:
// 400 no game, 503 not configured, 500 request failed or unexpected.
func (s *Server) handleAIHint(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	hint, err := s.games.AIHint(r.Context(), sess)
	if err != nil {
		var reqErr *ai.RequestError
		switch {
		case errors.Is(err, game.ErrNoActiveGame):
			writeJSON(w, http.StatusBadRequest, aiHintRes{Error: "No game in progress"})
		case errors.Is(err, ai.ErrNotConfigured):
			writeJSON(w, http.StatusServiceUnavailable, aiHintRes{Error: "Claude API not configured"})
		case errors.As(err, &reqErr), errors.Is(err, ai.ErrEmptyReply):
			log.Warn().Err(err).Msg("ai hint failed")
			writeJSON(w, http.StatusInternalServerError, aiHintRes{Error: "AI hint generation failed"})
		default:
			log.Error().Err(err).Msg("ai hint unexpected error")
			writeJSON(w, http.StatusInternalServerError, aiHintRes{Error: "Unexpected error"})
		}
		return
	}

	var st game.State
	sess.Get(game.KeyGame, &st)
	writeJSON(w, http.StatusOK, aiHintRes{Success: true, Hint: hint, AIHintsUsed: st.AIHintsUsed})
}
