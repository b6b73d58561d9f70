// internal/game/engine.go
//
// Random-mode engine: one game per player session.
// Responsibilities:
//   - Pick a word for a category and difficulty, avoiding an immediate repeat.
//   - Validate and apply letter guesses.
//   - Attach learning info once per game and reuse it on every poll.
//   - Ask the AI collaborator for on-demand hints.
//
// Notes:
//   - Words and difficulty settings come from the words package.
//   - The random source is injected so tests can pin selection.

package game

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/hangman/internal/learning"
	"github.com/robalobadob/hangman/internal/words"
)

// Learner supplies enrichment and hints.
type Learner interface {
	Info(ctx context.Context, entry words.Entry, category string, meta words.Metadata) *learning.Info
	Hint(ctx context.Context, word, category, masked string) (string, error)
}

// Engine runs random-mode games.
type Engine struct {
	catalog *words.Catalog
	learner Learner

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewEngine constructs an Engine. rng must not be shared with other goroutines.
func NewEngine(catalog *words.Catalog, learner Learner, rng *rand.Rand) *Engine {
	return &Engine{catalog: catalog, learner: learner, rng: rng}
}

// Start begins a new game in sess, replacing any current one.
// Unknown categories and difficulties fall back to the defaults.
func (e *Engine) Start(ctx context.Context, sess Session, category, difficulty string) (*State, error) {
	category = e.catalog.NormalizeCategory(category)
	diff := words.NormalizeDifficulty(difficulty)
	settings := words.SettingsFor(diff)
	cat, _ := e.catalog.Category(category)

	var previousWord string
	var prev State
	if sess.Get(KeyGame, &prev) {
		previousWord = prev.Word
	}
	entry := e.pick(words.FilterByDifficulty(cat.Words, diff), previousWord)

	st := &State{
		Round: Round{
			Word:         entry.Word,
			Hint:         entry.Hint,
			Category:     category,
			Guesses:      []string{},
			AttemptsLeft: settings.MaxAttempts,
		},
		Difficulty:  diff,
		MaxAttempts: settings.MaxAttempts,
		Learning:    e.learner.Info(ctx, entry, category, cat.Metadata),
		Mode:        ModeRandom,
	}
	if err := e.save(sess, st); err != nil {
		return nil, err
	}
	if err := sess.Set(KeyMode, ModeRandom); err != nil {
		return nil, err
	}
	sess.Delete(KeyDailyCategory)

	log.Debug().Str("category", category).Str("difficulty", string(diff)).Msg("random game started")
	return st, nil
}

// pick chooses uniformly from candidates, skipping previousWord when another
// candidate exists.
func (e *Engine) pick(candidates []words.Entry, previousWord string) words.Entry {
	if previousWord != "" && len(candidates) > 1 {
		rest := lo.Reject(candidates, func(w words.Entry, _ int) bool { return w.Word == previousWord })
		if len(rest) > 0 {
			candidates = rest
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return candidates[e.rng.IntN(len(candidates))]
}

// Guess applies letter to the session's game.
//
// Errors: ErrNoActiveGame, ErrInvalidInput, ErrAlreadyGuessed, ErrGameOver.
// The stored game is untouched on error.
func (e *Engine) Guess(ctx context.Context, sess Session, letter string) (*State, error) {
	var st State
	if !sess.Get(KeyGame, &st) {
		return nil, ErrNoActiveGame
	}
	l, err := NormalizeLetter(letter)
	if err != nil {
		return nil, err
	}
	if err := st.Apply(l); err != nil {
		return nil, err
	}
	e.ensureLearning(ctx, &st)
	if err := e.save(sess, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Status returns the session's game, starting one with defaults if there is none.
func (e *Engine) Status(ctx context.Context, sess Session) (*State, error) {
	var st State
	if !sess.Get(KeyGame, &st) {
		return e.Start(ctx, sess, "", "")
	}
	if e.ensureLearning(ctx, &st) {
		if err := e.save(sess, &st); err != nil {
			return nil, err
		}
	}
	return &st, nil
}

// AIHint asks the collaborator for a fresh hint about the current word.
// Collaborator errors are returned unchanged.
func (e *Engine) AIHint(ctx context.Context, sess Session) (string, error) {
	var st State
	if !sess.Get(KeyGame, &st) {
		return "", ErrNoActiveGame
	}
	hint, err := e.learner.Hint(ctx, st.Word, st.Category, st.Masked())
	if err != nil {
		return "", err
	}
	st.AIHintsUsed++
	if err := e.save(sess, &st); err != nil {
		return "", err
	}
	return hint, nil
}

// ensureLearning backfills learning info and reports whether it did.
func (e *Engine) ensureLearning(ctx context.Context, st *State) bool {
	if st.Learning != nil {
		return false
	}
	var meta words.Metadata
	if cat, ok := e.catalog.Category(st.Category); ok {
		meta = cat.Metadata
	}
	st.Learning = e.learner.Info(ctx, e.catalog.Lookup(st.Category, st.Word), st.Category, meta)
	return true
}

func (e *Engine) save(sess Session, st *State) error {
	return sess.Set(KeyGame, st)
}

// View renders st for the client.
func (st *State) View() View {
	return View{
		Mode:         ModeRandom,
		Category:     st.Category,
		Difficulty:   string(st.Difficulty),
		MaskedWord:   st.Masked(),
		AttemptsLeft: st.AttemptsLeft,
		MaxAttempts:  st.MaxAttempts,
		Guesses:      st.GuessList(),
		GameOver:     st.GameOver,
		Win:          st.Win,
		Hint:         st.Hint,
		Learning:     st.Learning,
		AIHintsUsed:  st.AIHintsUsed,
		AIHintCost:   words.SettingsFor(st.Difficulty).AIHintCost,
		Word:         st.Revealed(),
	}
}
