// Package session keeps per-browser state (identity and one-shot flash
// notices) in a server-side store keyed by a signed cookie token.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session: not found")

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

type Flash struct {
	Kind    FlashKind `json:"kind" bson:"kind"`
	Message string    `json:"message" bson:"message"`
}

// Data is the persisted part of a session.
type Data struct {
	UserID  string  `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Flashes []Flash `json:"flashes,omitempty" bson:"flashes,omitempty"`
}

// Session is scoped to one request. Mutations mark it dirty and are written
// back when the response starts.
type Session struct {
	id    string
	data  Data
	dirty bool
	// stale is an id replaced during this request; it is removed on commit.
	stale string
}

func newSession() *Session { return &Session{id: uuid.NewString()} }

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.data.UserID }
func (s *Session) Authenticated() bool {
	return s.data.UserID != ""
}

// Login binds userID under a fresh id so a pre-login token cannot be reused.
func (s *Session) Login(userID string) {
	s.regenerate()
	s.data.UserID = userID
	s.dirty = true
}

// Logout drops the identity. Queued flashes survive so the next page can say
// goodbye.
func (s *Session) Logout() {
	s.regenerate()
	s.data.UserID = ""
	s.dirty = true
}

func (s *Session) AddFlash(kind FlashKind, msg string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Kind: kind, Message: msg})
	s.dirty = true
}

// TakeFlashes drains the queue.
func (s *Session) TakeFlashes() []Flash {
	out := s.data.Flashes
	if len(out) > 0 {
		s.data.Flashes = nil
		s.dirty = true
	}
	return out
}

func (s *Session) regenerate() {
	if s.stale == "" {
		s.stale = s.id
	}
	s.id = uuid.NewString()
}

type ctxKey struct{}

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session or nil outside the middleware.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
