// internal/game/types.go
//
// Core type definitions for the hangman game engine.
// Defines:
//   - Round: the letter-guessing state shared by random and daily games.
//   - State: a random-mode game stored in the player's session.
//   - View: the JSON shape returned to the client.
//   - Session: the per-player key/value store the engines depend on.

package game

import (
	"errors"

	"github.com/robalobadob/hangman/internal/learning"
	"github.com/robalobadob/hangman/internal/words"
)

// Guess errors. All of them are client errors.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyGuessed = errors.New("already guessed")
	ErrGameOver       = errors.New("game is over")
	ErrNoActiveGame   = errors.New("game not started")
)

// Session keys and modes.
const (
	KeyGame          = "game"
	KeyMode          = "mode"
	KeyDailyCategory = "daily_category"

	ModeRandom = "random"
	ModeDaily  = "daily"
)

// Session is per-player state. Values are copied in and out, so callers must
// Set after mutating anything they got.
type Session interface {
	// Get decodes the value under key into dst and reports whether it existed.
	Get(key string, dst any) bool
	Set(key string, v any) error
	Delete(key string)
}

// Round holds the word being guessed and the guessing progress.
type Round struct {
	Word         string   `json:"word"`
	Hint         string   `json:"hint"`
	Category     string   `json:"category"`
	Guesses      []string `json:"guesses"`
	AttemptsLeft int      `json:"attemptsLeft"`
	GameOver     bool     `json:"gameOver"`
	Win          bool     `json:"win"`
}

// State is a random-mode game.
type State struct {
	Round
	Difficulty  words.Difficulty `json:"difficulty"`
	MaxAttempts int              `json:"maxAttempts"`
	Learning    *learning.Info   `json:"learning,omitempty"`
	AIHintsUsed int              `json:"aiHintsUsed"`
	Mode        string           `json:"mode"`
}

// View is the client-facing form of State. Word is set only once the game is over.
type View struct {
	Mode         string         `json:"mode"`
	Category     string         `json:"category"`
	Difficulty   string         `json:"difficulty"`
	MaskedWord   string         `json:"maskedWord"`
	AttemptsLeft int            `json:"attemptsLeft"`
	MaxAttempts  int            `json:"maxAttempts"`
	Guesses      []string       `json:"guesses"`
	GameOver     bool           `json:"gameOver"`
	Win          bool           `json:"win"`
	Hint         string         `json:"hint"`
	Learning     *learning.Info `json:"learning"`
	AIHintsUsed  int            `json:"aiHintsUsed"`
	AIHintCost   int            `json:"aiHintCost"`
	Word         string         `json:"word,omitempty"`
}
