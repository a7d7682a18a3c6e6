package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"merchantportal/internal/domain"
)

// SessionStore persists session records keyed by sid. Get returns nil, nil for unknown or expired sessions.
type SessionStore interface {
	Get(ctx context.Context, sid string) (*domain.Session, error)
	Put(ctx context.Context, sid string, s *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

type SessionRepo struct {
	DB  *sqlx.DB
	now func() time.Time
}

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db, now: time.Now} }

type sessionRow struct {
	ID        string `db:"id"`
	Data      string `db:"data"`
	ExpiresAt int64  `db:"expires_at"`
}

func (r *SessionRepo) Get(ctx context.Context, sid string) (*domain.Session, error) {
	var row sessionRow
	err := r.DB.GetContext(ctx, &row,
		`SELECT id,data,expires_at FROM sessions WHERE id=? AND expires_at>?`,
		SessionKey(sid), r.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(row.Data), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = sid
	s.ExpiresAt = time.Unix(row.ExpiresAt, 0)
	return &s, nil
}

func (r *SessionRepo) Put(ctx context.Context, sid string, s *domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	now := r.now()
	_, err = r.DB.ExecContext(ctx, `INSERT INTO sessions(id,data,last_seen,expires_at)
                          VALUES(?,?,?,?)
                          ON CONFLICT(id) DO UPDATE SET data=excluded.data,last_seen=excluded.last_seen,expires_at=excluded.expires_at`,
		SessionKey(sid), string(b), now.UTC().Format(time.RFC3339), now.Add(ttl).Unix())
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, SessionKey(sid))
	return err
}

// PurgeExpired drops rows past their expiry and reports how many went.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at<=?`, r.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ SessionStore = (*SessionRepo)(nil)
