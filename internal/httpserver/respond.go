package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
)

// errorRes is the body of every error response.
type errorRes struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorRes{Error: msg})
}

// clientErrors maps engine errors to the fixed messages players see.
var clientErrors = []struct {
	err error
	msg string
}{
	{game.ErrInvalidInput, "Invalid input"},
	{game.ErrAlreadyGuessed, "Already guessed"},
	{game.ErrGameOver, "Game is over"},
	{game.ErrNoActiveGame, "Game not started"},
	{daily.ErrGameFinished, "Daily challenge is already finished"},
}

// writeGameError writes a 400 for known game errors and a generic 500
// otherwise, never exposing internal details.
func writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			writeError(w, http.StatusBadRequest, ce.msg)
			return
		}
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeBody decodes an optional JSON body into dst and reports success.
// Callers that treat a bad body as empty reset dst when it returns false.
func decodeBody(r *http.Request, dst any) bool {
	if r.Body == nil {
		return false
	}
	return json.NewDecoder(r.Body).Decode(dst) == nil
}
