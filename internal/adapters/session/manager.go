package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const DefaultCookieName = "hotels.sid"

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	name   string
	secure bool
}

type Option func(*Manager)

func WithCookieName(name string) Option { return func(m *Manager) { m.name = name } }
func WithSecureCookie(on bool) Option   { return func(m *Manager) { m.secure = on } }

func NewManager(store Store, secret string, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{store: store, secret: []byte(secret), ttl: ttl, name: DefaultCookieName}
	for _, o := range opts {
		o(m)
	}
	return m
}

// sign produces "<id>.<mac>".
func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

var errBadToken = errors.New("session: bad token")

func (m *Manager) verify(token string) (string, error) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" {
		return "", errBadToken
	}
	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", errBadToken
	}
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	if !hmac.Equal(want, mac.Sum(nil)) {
		return "", errBadToken
	}
	return id, nil
}

// Middleware loads the session named by the cookie, or starts a new one,
// and writes it back before the first byte of the response.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		cw := &commitWriter{ResponseWriter: w, commit: func(w http.ResponseWriter) { m.commit(r, w, s) }}
		next.ServeHTTP(cw, r.WithContext(withSession(r.Context(), s)))
		cw.once.Do(func() { cw.commit(w) })
	})
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(m.name)
	if err != nil {
		return newSession()
	}
	id, err := m.verify(c.Value)
	if err != nil {
		log.Debug().Str("request_id", requestID(r)).Msg("session cookie rejected")
		return newSession()
	}
	d, err := m.store.Load(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Str("request_id", requestID(r)).Msg("session load failed")
		}
		return newSession()
	}
	return &Session{id: id, data: d}
}

// commit persists a dirty session and refreshes its cookie. Untouched
// anonymous sessions are never stored.
func (m *Manager) commit(r *http.Request, w http.ResponseWriter, s *Session) {
	if !s.dirty {
		return
	}
	ctx := r.Context()
	if s.stale != "" {
		if err := m.store.Delete(ctx, s.stale); err != nil {
			log.Warn().Err(err).Msg("session delete failed")
		}
		s.stale = ""
	}
	if err := m.store.Save(ctx, s.id, s.data, m.ttl); err != nil {
		log.Error().Err(err).Str("request_id", requestID(r)).Msg("session save failed")
		return
	}
	s.dirty = false
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    m.sign(s.id),
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestID(r *http.Request) string { return middleware.GetReqID(r.Context()) }

// commitWriter runs commit once, just before headers go out.
type commitWriter struct {
	http.ResponseWriter
	once   sync.Once
	commit func(http.ResponseWriter)
}

func (c *commitWriter) WriteHeader(code int) {
	c.once.Do(func() { c.commit(c.ResponseWriter) })
	c.ResponseWriter.WriteHeader(code)
}

func (c *commitWriter) Write(b []byte) (int, error) {
	c.once.Do(func() { c.commit(c.ResponseWriter) })
	return c.ResponseWriter.Write(b)
}

func (c *commitWriter) Unwrap() http.ResponseWriter { return c.ResponseWriter }
