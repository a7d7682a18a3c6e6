package repos

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
)

func TestSessionKeyHidesSid(t *testing.T) {
	k := SessionKey("abc")
	assert.Len(t, k, 64)
	assert.NotContains(t, k, "abc")
	assert.Equal(t, k, SessionKey("abc"))
	assert.NotEqual(t, k, SessionKey("abd"))
}

func TestSQLiteSessionRoundTripAndExpiry(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepo(db)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	in := &domain.Session{UserID: "u1", JwtToken: "t", MerchantID: "m1", Flash: map[string]string{"success": "saved"}}
	require.NoError(t, repo.Put(ctx, "sid-1", in, time.Hour))

	var stored []string
	require.NoError(t, db.Select(&stored, `SELECT id FROM sessions`))
	require.Len(t, stored, 1)
	assert.Equal(t, SessionKey("sid-1"), stored[0])

	got, err := repo.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sid-1", got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "saved", got.Flash["success"])

	now = now.Add(2 * time.Hour)
	got, err = repo.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSQLiteSessionDelete(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "sid-2", &domain.Session{UserID: "u2"}, time.Hour))
	require.NoError(t, repo.Delete(ctx, "sid-2"))
	got, err := repo.Get(ctx, "sid-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionTTLRefreshedOnRead(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	repo := NewRedisSessionRepo(rdb, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "sid-r", &domain.Session{UserID: "u3", UserRole: domain.RoleAdmin}, 0))
	key := "merchantportal:session:" + SessionKey("sid-r")
	assert.True(t, mr.Exists(key))

	mr.FastForward(8 * time.Minute)
	got, err := repo.Get(ctx, "sid-r")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	mr.FastForward(11 * time.Minute)
	got, err = repo.Get(ctx, "sid-r")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	repo := NewRedisSessionRepo(rdb, time.Minute)
	mr.Close()

	_, err := repo.Get(context.Background(), "sid-x")
	require.Error(t, err)
}
