package services_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/repos"
	"merchantportal/internal/services"
)

func redisSessions(t *testing.T) *services.SessionService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return services.NewSessionService(repos.NewRedisSessionRepo(rdb, time.Hour), time.Hour)
}

func TestLoadWithoutSidStartsFreshSession(t *testing.T) {
	svc := redisSessions(t)
	sess, err := svc.Load(t.Context(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Authenticated())
}

func TestRotateInvalidatesOldSid(t *testing.T) {
	svc := redisSessions(t)
	ctx := t.Context()

	sess := &domain.Session{ID: "pre-login", UserID: "u1", JwtToken: "tok"}
	require.NoError(t, svc.Save(ctx, sess))
	require.NoError(t, svc.Rotate(ctx, sess))
	assert.NotEqual(t, "pre-login", sess.ID)

	old, err := svc.Load(ctx, "pre-login")
	require.NoError(t, err)
	assert.False(t, old.Authenticated())

	cur, err := svc.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", cur.JwtToken)
}

func TestDestroyClearsSession(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := services.NewSessionService(repos.NewSessionRepo(db), 0)
	assert.Equal(t, services.DefaultIdleTimeout, svc.IdleTimeout)

	ctx := t.Context()
	sess := &domain.Session{ID: "sid-9", UserID: "u1"}
	require.NoError(t, svc.Save(ctx, sess))
	require.NoError(t, svc.Destroy(ctx, sess))
	assert.False(t, sess.Authenticated())

	again, err := svc.Load(ctx, "sid-9")
	require.NoError(t, err)
	assert.False(t, again.Authenticated())
}

func TestFlashesArePoppedOnce(t *testing.T) {
	var sess domain.Session
	services.AddFlash(&sess, "success", "Saved")
	services.AddFlash(&sess, "error", "Oops")

	assert.Equal(t, map[string]string{"success": "Saved", "error": "Oops"}, services.PopFlashes(&sess))
	assert.Nil(t, services.PopFlashes(&sess))
}
