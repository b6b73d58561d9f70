// internal/httpserver/session.go
//
// Player sessions.
// Every game route runs with a *store.Session in its request context:
//   - The cookie carries an HS256 JWT whose jti is the session ID (a UUID).
//   - The signing key is derived from the configured secret with HKDF-SHA256.
//   - Values are loaded from the Store before the handler and saved after it
//     when the handler changed anything.
//
// A missing, expired or forged cookie starts a fresh session.

package httpserver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/hkdf"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/store"
)

const (
	sessionIssuer  = "hangman"
	sessionKeyInfo = "hangman session cookie v1"
)

// sessionCtxKey is the context key type for the request's *store.Session.
type sessionCtxKey struct{}

type sessionManager struct {
	cfg   config.SessionConfig
	store store.Store
	key   []byte
}

func newSessionManager(cfg config.SessionConfig, st store.Store) *sessionManager {
	return &sessionManager{cfg: cfg, store: st, key: deriveKey(cfg.Secret)}
}

// deriveKey stretches secret into a 32-byte HMAC key.
func deriveKey(secret string) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(sessionKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only fails after 255*32 bytes.
		panic(err)
	}
	return key
}

// sign issues a cookie token for session id.
func (m *sessionManager) sign(id string, now time.Time) (string, time.Time, error) {
	exp := now.Add(m.cfg.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(m.key)
	return ss, exp, err
}

// parse validates a cookie token and returns its session ID.
func (m *sessionManager) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return claims.ID, nil
}

// middleware loads the player's session, runs next, and saves the session if
// it changed.
func (m *sessionManager) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.load(w, r)
		if err != nil {
			log.Error().Err(err).Msg("load session")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, sess)))

		if sess.Dirty() {
			// Save even if the request context was cancelled mid-handler.
			if err := m.store.Save(context.WithoutCancel(r.Context()), sess.ID, sess.Values()); err != nil {
				log.Error().Err(err).Str("session", sess.ID).Msg("save session")
			}
		}
	})
}

// load resolves the cookie to a session, issuing a new cookie when needed.
func (m *sessionManager) load(w http.ResponseWriter, r *http.Request) (*store.Session, error) {
	if c, err := r.Cookie(m.cfg.CookieName); err == nil && c.Value != "" {
		if id, err := m.parse(c.Value); err == nil {
			vals, err := m.store.Load(r.Context(), id)
			switch {
			case err == nil:
				return store.NewSession(id, vals), nil
			case errors.Is(err, store.ErrNotFound):
				return store.NewSession(id, nil), nil
			default:
				return nil, err
			}
		} else {
			log.Debug().Err(err).Msg("discarding session cookie")
		}
	}

	id := uuid.NewString()
	tok, exp, err := m.sign(id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	m.setCookie(w, tok, exp)
	return store.NewSession(id, nil), nil
}

// setCookie writes the session cookie with appropriate security attributes.
func (m *sessionManager) setCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if m.cfg.Secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// sessionFrom returns the request's session. It panics outside the session
// middleware, which Recoverer turns into a 500.
func sessionFrom(r *http.Request) *store.Session {
	return r.Context().Value(sessionCtxKey{}).(*store.Session)
}
