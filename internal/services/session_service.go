package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"merchantportal/internal/domain"
	"merchantportal/internal/repos"
)

const DefaultIdleTimeout = 8 * time.Hour

// SessionService loads and stores the per-browser session behind the sid cookie.
type SessionService struct {
	Store       repos.SessionStore
	IdleTimeout time.Duration
}

func NewSessionService(store repos.SessionStore, idle time.Duration) *SessionService {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &SessionService{Store: store, IdleTimeout: idle}
}

// Load returns the stored session for sid, or a fresh empty one.
func (s *SessionService) Load(ctx context.Context, sid string) (*domain.Session, error) {
	if sid == "" {
		return &domain.Session{ID: uuid.NewString()}, nil
	}
	sess, err := s.Store.Get(ctx, sid)
	if err != nil {
		return &domain.Session{ID: sid}, err
	}
	if sess == nil {
		return &domain.Session{ID: sid}, nil
	}
	return sess, nil
}

func (s *SessionService) Save(ctx context.Context, sess *domain.Session) error {
	sess.ExpiresAt = time.Now().Add(s.IdleTimeout)
	return s.Store.Put(ctx, sess.ID, sess, s.IdleTimeout)
}

func (s *SessionService) Destroy(ctx context.Context, sess *domain.Session) error {
	err := s.Store.Delete(ctx, sess.ID)
	sess.Clear()
	return err
}

// Rotate moves the session to a new id so a pre-login sid cannot be reused.
func (s *SessionService) Rotate(ctx context.Context, sess *domain.Session) error {
	old := sess.ID
	sess.ID = uuid.NewString()
	if err := s.Save(ctx, sess); err != nil {
		return err
	}
	return s.Store.Delete(ctx, old)
}

// AddFlash queues a one-shot message of kind success, error or warning.
func AddFlash(sess *domain.Session, kind, msg string) {
	if sess.Flash == nil {
		sess.Flash = map[string]string{}
	}
	sess.Flash[kind] = msg
}

// PopFlashes returns and clears the queued messages.
func PopFlashes(sess *domain.Session) map[string]string {
	f := sess.Flash
	sess.Flash = nil
	return f
}
