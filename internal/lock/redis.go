package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries our token, so a
// holder whose TTL expired cannot release someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the TTL only while the key still carries our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a Locker shared by every process pointed at the same Redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	log    *slog.Logger
}

type RedisOption func(*Redis)

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.ttl = d
		}
	}
}

func WithRetryInterval(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.retry = d
		}
	}
}

func WithLogger(log *slog.Logger) RedisOption {
	return func(r *Redis) {
		if log != nil {
			r.log = log
		}
	}
}

func NewRedis(rdb *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		rdb:    rdb,
		prefix: "clinicbook:lock",
		ttl:    10 * time.Second,
		retry:  25 * time.Millisecond,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	if r == nil || r.rdb == nil {
		return nil, errors.New("redis locker not configured")
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	fullKey := r.prefix + ":" + key

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()
	for {
		ok, err := r.rdb.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			stop := make(chan struct{})
			done := make(chan struct{})
			go r.keepAlive(fullKey, token, stop, done)

			var once sync.Once
			return func() {
				once.Do(func() {
					close(stop)
					<-done
					r.release(fullKey, token)
				})
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

// keepAlive extends the TTL every third of it until stop is closed, so a
// holder that outlives the TTL keeps the lock. It gives up once the key no
// longer carries token.
func (r *Redis) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.ttl/3)
		n, err := extendScript.Run(ctx, r.rdb, []string{key}, token, r.ttl.Milliseconds()).Int()
		cancel()
		switch {
		case err != nil:
			r.log.Warn("lock extend failed", "key", key, "err", err)
		case n == 0:
			r.log.Warn("lock lost before release", "key", key)
			return
		}
	}
}

func (r *Redis) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil {
		r.log.Warn("lock release failed", "key", key, "err", err)
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
