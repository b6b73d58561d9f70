package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/internal/ai"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/learning"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) GenerateText(context.Context, ai.Request) (string, error) {
	return s.reply, s.err
}

func testConfig() config.Config {
	return config.Config{
		Server:    config.ServerConfig{ClientOrigin: "http://localhost:5173", RequestTimeout: 5 * time.Second},
		Session:   config.SessionConfig{Secret: "test-secret", CookieName: "hangman_session", TTL: time.Hour, Backend: "memory"},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
}

// newTestServer builds a server over the builtin catalog. gen may be nil for
// an unconfigured AI collaborator.
func newTestServer(t *testing.T, cfg config.Config, gen learning.Generator, sessions store.Store) *Server {
	t.Helper()
	catalog, err := words.Load("")
	require.NoError(t, err)
	learner := learning.NewService(gen)
	if sessions == nil {
		sessions = store.NewMemoryStore()
	}
	return New(cfg, Deps{
		Catalog:  catalog,
		Games:    game.NewEngine(catalog, learner, rand.New(rand.NewPCG(3, 4))),
		Daily:    daily.NewEngine(catalog, learner, time.UTC, nil),
		Sessions: sessions,
		Index:    []byte("<html>hangman</html>"),
	})
}

// client replays the session cookie like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, s *Server) *client { return &client{t: t, h: s.Handler()} }

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		c.cookies = cs
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

// guessUntilOver guesses A..Z at path, skipping letters already taken, until
// the game ends. It returns the final body and the next unused letter ("" if
// none is left).
func guessUntilOver(t *testing.T, c *client, path, extra string) (map[string]any, string) {
	t.Helper()
	var final map[string]any
	for r := 'A'; r <= 'Z'; r++ {
		letter := string(r)
		if final != nil {
			if slices.Contains(final["guesses"].([]any), any(letter)) {
				continue
			}
			return final, letter
		}
		rec := c.do(http.MethodPost, path, `{`+extra+`"letter":"`+letter+`"}`)
		if rec.Code == http.StatusBadRequest && strings.Contains(rec.Body.String(), "Already guessed") {
			continue
		}
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		if body := decode(t, rec); body["gameOver"] == true {
			final = body
		}
	}
	require.NotNil(t, final, "game never ended")
	return final, ""
}

func TestDiagnostics(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))

	rec := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"categories":4}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/categories", "")
	assert.JSONEq(t, `["Technology","Animals","Fruits","Countries"]`, rec.Body.String())

	rec = c.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "<html>hangman</html>", rec.Body.String())

	rec = c.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())

	assert.Empty(t, c.cookies, "diagnostics don't create sessions")
}

func TestCORSPreflight(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))
	rec := c.do(http.MethodOptions, "/api/start", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRandomGameFlow(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))

	rec := c.do(http.MethodPost, "/api/start", `{"category":"Fruits","difficulty":"hard"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.cookies, 1)
	assert.True(t, c.cookies[0].HttpOnly)
	body := decode(t, rec)
	assert.Equal(t, "random", body["mode"])
	assert.Equal(t, "Fruits", body["category"])
	assert.Equal(t, "hard", body["difficulty"])
	assert.EqualValues(t, 4, body["attemptsLeft"])
	assert.EqualValues(t, 1, body["aiHintCost"])
	assert.NotContains(t, body, "word")
	learningInfo, ok := body["learning"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A word from the Fruits category.", learningInfo["definition"])

	status := decode(t, c.do(http.MethodGet, "/api/status", ""))
	assert.Equal(t, body["maskedWord"], status["maskedWord"], "same session, same game")

	rec = c.do(http.MethodPost, "/api/guess", `{"letter":"ab"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid input"}`, rec.Body.String())

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/guess", `{"letter":"e"}`).Code)
	rec = c.do(http.MethodPost, "/api/guess", `{"letter":"E"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Already guessed"}`, rec.Body.String())

	final, next := guessUntilOver(t, c, "/api/guess", "")
	assert.NotEmpty(t, final["word"])

	if next != "" {
		rec = c.do(http.MethodPost, "/api/guess", `{"letter":"`+next+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Game is over"}`, rec.Body.String())
	}
}

func TestStart_invalidBodyUsesDefaults(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))

	rec := c.do(http.MethodPost, "/api/start", `{not json`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Technology", body["category"])
	assert.Equal(t, "medium", body["difficulty"])
	assert.EqualValues(t, 6, body["maxAttempts"])
}

func TestGuess_withoutGame(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))
	rec := c.do(http.MethodPost, "/api/guess", `{"letter":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Game not started"}`, rec.Body.String())
}

func TestStatus_autoStarts(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))
	rec := c.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Technology", body["category"])
	assert.Equal(t, []any{}, body["guesses"])
}

func TestDailyFlow(t *testing.T) {
	s := newTestServer(t, testConfig(), nil, nil)
	a, b := newClient(t, s), newClient(t, s)

	rec := a.do(http.MethodPost, "/api/daily/start", `{"category":"Animals"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	started := decode(t, rec)
	assert.Equal(t, "daily", started["mode"])
	assert.Equal(t, "Animals", started["category"])
	assert.EqualValues(t, 6, started["attemptsLeft"])
	assert.EqualValues(t, 0, started["streakCurrent"])
	assert.Equal(t, daily.DateKey(time.Now(), time.UTC), started["date"])

	other := decode(t, b.do(http.MethodGet, "/api/daily/status?category=Animals", ""))
	assert.Equal(t, started["maskedWord"], other["maskedWord"])

	// No category in the body: the session remembers Animals.
	final, _ := guessUntilOver(t, a, "/api/daily/guess", "")
	assert.Equal(t, "Animals", final["category"])
	assert.NotEmpty(t, final["word"])
	if final["win"] == true {
		assert.EqualValues(t, 1, final["streakCurrent"])
		assert.EqualValues(t, 1, final["streakBest"])
	} else {
		assert.EqualValues(t, 0, final["streakCurrent"])
	}

	rec = a.do(http.MethodPost, "/api/daily/guess", `{"category":"Animals","letter":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Already guessed"}`, rec.Body.String())

	status := decode(t, a.do(http.MethodGet, "/api/daily/status?category=Animals", ""))
	assert.Equal(t, true, status["gameOver"])
	assert.Equal(t, final["word"], status["word"])
	assert.Equal(t, final["streakCurrent"], status["streakCurrent"])
}

func TestDailyGuess_finished(t *testing.T) {
	c := newClient(t, newTestServer(t, testConfig(), nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/daily/start", `{"category":"Fruits"}`).Code)

	_, next := guessUntilOver(t, c, "/api/daily/guess", `"category":"Fruits",`)
	if next == "" {
		t.Skip("every letter used")
	}
	rec := c.do(http.MethodPost, "/api/daily/guess", `{"category":"Fruits","letter":"`+next+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Daily challenge is already finished"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/daily/guess", `{"category":"Fruits","letter":"%"}`)
	assert.JSONEq(t, `{"error":"Invalid input"}`, rec.Body.String())
}

func TestAIHint(t *testing.T) {
	t.Run("no game", func(t *testing.T) {
		c := newClient(t, newTestServer(t, testConfig(), nil, nil))
		rec := c.do(http.MethodPost, "/api/ai-hint", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"No game in progress"}`, rec.Body.String())
	})

	t.Run("not configured", func(t *testing.T) {
		c := newClient(t, newTestServer(t, testConfig(), nil, nil))
		c.do(http.MethodPost, "/api/start", "")
		rec := c.do(http.MethodPost, "/api/ai-hint", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Claude API not configured"}`, rec.Body.String())
	})

	t.Run("request failed", func(t *testing.T) {
		gen := &stubGenerator{err: &ai.RequestError{StatusCode: 529, Err: errors.New("overloaded")}}
		c := newClient(t, newTestServer(t, testConfig(), gen, nil))
		c.do(http.MethodPost, "/api/start", "")
		rec := c.do(http.MethodPost, "/api/ai-hint", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"AI hint generation failed"}`, rec.Body.String())
	})

	t.Run("unexpected", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("kaboom")}
		c := newClient(t, newTestServer(t, testConfig(), gen, nil))
		c.do(http.MethodPost, "/api/start", "")
		rec := c.do(http.MethodPost, "/api/ai-hint", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Unexpected error"}`, rec.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		gen := &stubGenerator{reply: "It runs on electricity."}
		c := newClient(t, newTestServer(t, testConfig(), gen, nil))
		c.do(http.MethodPost, "/api/start", "")
		rec := c.do(http.MethodPost, "/api/ai-hint", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"hint":"It runs on electricity.","aiHintsUsed":1}`, rec.Body.String())

		status := decode(t, c.do(http.MethodGet, "/api/status", ""))
		assert.EqualValues(t, 1, status["aiHintsUsed"])
	})
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RPS: 1, Burst: 2}
	c := newClient(t, newTestServer(t, cfg, nil, nil))

	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/start", "").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/start", "").Code)
	rec := c.do(http.MethodPost, "/api/start", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests. Please slow down."}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/status", "").Code, "reads aren't limited")
}

func TestSessionCookie(t *testing.T) {
	s := newTestServer(t, testConfig(), nil, nil)

	tok, _, err := s.sessions.sign("0b5d3c3e-8a4f-4d55-9f1e-5d6f4c2b7a10", time.Now())
	require.NoError(t, err)
	id, err := s.sessions.parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "0b5d3c3e-8a4f-4d55-9f1e-5d6f4c2b7a10", id)

	other := newSessionManager(config.SessionConfig{Secret: "other", TTL: time.Hour}, store.NewMemoryStore())
	_, err = other.parse(tok)
	assert.Error(t, err, "different secret")

	expired, _, err := s.sessions.sign("0b5d3c3e-8a4f-4d55-9f1e-5d6f4c2b7a10", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.sessions.parse(expired)
	assert.Error(t, err)

	// A forged cookie is replaced with a fresh session.
	c := newClient(t, s)
	c.cookies = []*http.Cookie{{Name: "hangman_session", Value: "forged"}}
	rec := c.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, "forged", c.cookies[0].Value)
}

func TestSessionsSurviveRestartWithSQLite(t *testing.T) {
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	c := newClient(t, newTestServer(t, cfg, nil, db))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/start", `{"category":"Countries","difficulty":"easy"}`).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/guess", `{"letter":"A"}`).Code)

	// New server, same store and secret.
	c.h = newTestServer(t, cfg, nil, db).Handler()
	rec := c.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "existing cookie accepted")
	status := decode(t, rec)
	assert.Equal(t, "Countries", status["category"])
	assert.Equal(t, "easy", status["difficulty"])
	assert.Equal(t, []any{"A"}, status["guesses"])
}
