// internal/daily/engine.go
//
// Daily Challenge engine.
// Each category has one puzzle per calendar day, derived from the date and
// category alone (see WordIndex), so every player gets the same word without
// any shared state. Progress and streaks live in the player's session:
//   - "daily_state":   category -> Game for the day it was created
//   - "daily_streaks": category -> Streak
//
// A game whose date is not today is replaced on first access. Its outcome was
// folded into the streak when it finished; an unfinished game simply lapses.

package daily

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/learning"
	"github.com/robalobadob/hangman/internal/words"
)

// Session keys.
const (
	KeyState   = "daily_state"
	KeyStreaks = "daily_streaks"
)

// MaxAttempts is fixed for daily games regardless of difficulty.
const MaxAttempts = 6

// ErrGameFinished is returned for guesses after today's game ended.
var ErrGameFinished = errors.New("daily challenge is already finished")

// Enricher supplies learning info for a daily word.
type Enricher interface {
	Info(ctx context.Context, entry words.Entry, category string, meta words.Metadata) *learning.Info
}

// Game is one category's puzzle for one day.
type Game struct {
	Date string `json:"date"`
	game.Round
	StartedAt time.Time      `json:"startedAt"`
	Learning  *learning.Info `json:"learning,omitempty"`
}

// View is the client-facing form of a daily game plus the category streak.
type View struct {
	Mode          string         `json:"mode"`
	Date          string         `json:"date"`
	Category      string         `json:"category"`
	MaskedWord    string         `json:"maskedWord"`
	AttemptsLeft  int            `json:"attemptsLeft"`
	MaxAttempts   int            `json:"maxAttempts"`
	Guesses       []string       `json:"guesses"`
	GameOver      bool           `json:"gameOver"`
	Win           bool           `json:"win"`
	Hint          string         `json:"hint"`
	Learning      *learning.Info `json:"learning"`
	StreakCurrent int            `json:"streakCurrent"`
	StreakBest    int            `json:"streakBest"`
	Word          string         `json:"word,omitempty"`
}

// Engine runs daily games.
type Engine struct {
	catalog  *words.Catalog
	enricher Enricher
	loc      *time.Location
	now      func() time.Time
}

// NewEngine constructs an Engine. Days are computed in loc; now defaults to time.Now.
func NewEngine(catalog *words.Catalog, enricher Enricher, loc *time.Location, now func() time.Time) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{catalog: catalog, enricher: enricher, loc: loc, now: now}
}

// Today is the current date key.
func (e *Engine) Today() string {
	return DateKey(e.now(), e.loc)
}

// WordFor returns the puzzle entry for category on dateKey.
func (e *Engine) WordFor(category, dateKey string) words.Entry {
	cat, _ := e.catalog.Category(e.catalog.NormalizeCategory(category))
	return cat.Words[WordIndex(dateKey, cat.Name, len(cat.Words))]
}

// Ensure returns today's game for category, creating it when missing or stale
// and backfilling learning info when absent.
func (e *Engine) Ensure(ctx context.Context, sess game.Session, category string) (*Game, error) {
	today := e.Today()
	category = e.catalog.NormalizeCategory(category)

	games := map[string]*Game{}
	sess.Get(KeyState, &games)

	g := games[category]
	dirty := false
	if g == nil || g.Date != today {
		entry := e.WordFor(category, today)
		g = &Game{
			Date: today,
			Round: game.Round{
				Word:         entry.Word,
				Hint:         entry.Hint,
				Category:     category,
				Guesses:      []string{},
				AttemptsLeft: MaxAttempts,
			},
			StartedAt: e.now().UTC().Truncate(time.Second),
			Learning:  e.info(ctx, entry, category),
		}
		dirty = true
		log.Debug().Str("category", category).Str("date", today).Msg("daily game created")
	}
	if g.Learning == nil {
		g.Learning = e.info(ctx, e.catalog.Lookup(category, g.Word), category)
		dirty = true
	}
	if dirty {
		games[category] = g
		if err := sess.Set(KeyState, games); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (e *Engine) info(ctx context.Context, entry words.Entry, category string) *learning.Info {
	var meta words.Metadata
	if cat, ok := e.catalog.Category(category); ok {
		meta = cat.Metadata
	}
	return e.enricher.Info(ctx, entry, category, meta)
}

// Start begins or resumes today's game and makes category the session's
// daily category.
func (e *Engine) Start(ctx context.Context, sess game.Session, category string) (View, error) {
	g, err := e.Ensure(ctx, sess, category)
	if err != nil {
		return View{}, err
	}
	if err := sess.Set(game.KeyMode, game.ModeDaily); err != nil {
		return View{}, err
	}
	if err := sess.Set(game.KeyDailyCategory, g.Category); err != nil {
		return View{}, err
	}
	return e.view(sess, g), nil
}

// Status returns today's game for category.
func (e *Engine) Status(ctx context.Context, sess game.Session, category string) (View, error) {
	g, err := e.Ensure(ctx, sess, category)
	if err != nil {
		return View{}, err
	}
	return e.view(sess, g), nil
}

// Guess applies letter to today's game. An empty category means the
// session's daily category. Finishing the game records the streak.
//
// Errors: game.ErrInvalidInput, game.ErrAlreadyGuessed, ErrGameFinished.
func (e *Engine) Guess(ctx context.Context, sess game.Session, category, letter string) (View, error) {
	l, err := game.NormalizeLetter(letter)
	if err != nil {
		return View{}, err
	}
	if category == "" {
		sess.Get(game.KeyDailyCategory, &category)
	}
	g, err := e.Ensure(ctx, sess, category)
	if err != nil {
		return View{}, err
	}
	if err := g.Apply(l); err != nil {
		if errors.Is(err, game.ErrGameOver) {
			return View{}, ErrGameFinished
		}
		return View{}, err
	}

	games := map[string]*Game{}
	sess.Get(KeyState, &games)
	games[g.Category] = g
	if err := sess.Set(KeyState, games); err != nil {
		return View{}, err
	}

	if g.GameOver {
		if err := e.recordOutcome(sess, g); err != nil {
			return View{}, err
		}
	}
	return e.view(sess, g), nil
}

// recordOutcome updates the category streak for a finished game.
func (e *Engine) recordOutcome(sess game.Session, g *Game) error {
	streaks := e.streaks(sess)
	s := streaks[g.Category]
	if s == nil {
		s = &Streak{}
		streaks[g.Category] = s
	}
	if !s.RecordOutcome(g.Win, g.AttemptsLeft, len(g.Guesses), e.Today()) {
		return nil
	}
	log.Info().Str("category", g.Category).Bool("win", g.Win).Int("streak", s.Current).Msg("daily streak updated")
	return sess.Set(KeyStreaks, streaks)
}

func (e *Engine) streaks(sess game.Session) map[string]*Streak {
	streaks := map[string]*Streak{}
	sess.Get(KeyStreaks, &streaks)
	return streaks
}

// Streak returns the session's streak for category (zero when none).
func (e *Engine) Streak(sess game.Session, category string) Streak {
	if s := e.streaks(sess)[category]; s != nil {
		return *s
	}
	return Streak{}
}

func (e *Engine) view(sess game.Session, g *Game) View {
	s := e.Streak(sess, g.Category)
	return View{
		Mode:          game.ModeDaily,
		Date:          g.Date,
		Category:      g.Category,
		MaskedWord:    g.Masked(),
		AttemptsLeft:  g.AttemptsLeft,
		MaxAttempts:   MaxAttempts,
		Guesses:       g.GuessList(),
		GameOver:      g.GameOver,
		Win:           g.Win,
		Hint:          g.Hint,
		Learning:      g.Learning,
		StreakCurrent: s.Current,
		StreakBest:    s.Best,
		Word:          g.Revealed(),
	}
}
