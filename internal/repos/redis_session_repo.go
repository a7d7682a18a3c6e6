package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
)

// RedisSessionRepo keeps each session as one JSON string whose TTL is refreshed on read.
type RedisSessionRepo struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepo(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{rdb: rdb, ttl: ttl}
}

// OpenRedis parses url, pings the server and returns the client.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.DialTimeout = 5 * time.Second
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (r *RedisSessionRepo) key(sid string) string {
	return "merchantportal:session:" + SessionKey(sid)
}

func (r *RedisSessionRepo) Get(ctx context.Context, sid string) (*domain.Session, error) {
	key := r.key(sid)
	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		applog.Warn("session.redis.get.fail", err, map[string]any{"key": key})
		return nil, errx.WrapRedis(err)
	}
	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = sid
	if r.ttl > 0 {
		// extend TTL on touch
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			return nil, errx.WrapRedis(err)
		} else if ok {
			s.ExpiresAt = time.Now().Add(r.ttl)
		}
	}
	return &s, nil
}

func (r *RedisSessionRepo) Put(ctx context.Context, sid string, s *domain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(sid), b, ttl).Err(); err != nil {
		applog.Warn("session.redis.put.fail", err, nil)
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepo) Delete(ctx context.Context, sid string) error {
	if err := r.rdb.Del(ctx, r.key(sid)).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

var _ SessionStore = (*RedisSessionRepo)(nil)
