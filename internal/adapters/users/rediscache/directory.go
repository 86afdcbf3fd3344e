package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"get-a-pet/internal/platform/logger"
	"get-a-pet/internal/ports/users"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "getapet:user:"

// kv es el subconjunto de redis.Cmdable que usamos; *redis.Client lo cumple.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Directory cachea en Redis las respuestas de otro users.Directory.
// Los "no encontrado" no se cachean. Si Redis falla se consulta el origen igual.
type Directory struct {
	next users.Directory
	rdb  kv
	ttl  time.Duration
	log  logger.Logger
}

func New(next users.Directory, rdb kv, ttl time.Duration, log logger.Logger) *Directory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Directory{next: next, rdb: rdb, ttl: ttl, log: log}
}

// NewClient arma el cliente con los mismos defaults que usamos en otros servicios.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (d *Directory) Get(ctx context.Context, id string) (users.User, error) {
	key := keyPrefix + id

	raw, err := d.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u users.User
		if jerr := json.Unmarshal(raw, &u); jerr == nil {
			return u, nil
		}
	case !errors.Is(err, redis.Nil):
		d.log.Warn("user cache read failed", map[string]any{"user_id": id, "error": err.Error()})
	}

	u, err := d.next.Get(ctx, id)
	if err != nil {
		return users.User{}, err
	}

	if b, jerr := json.Marshal(u); jerr == nil {
		if serr := d.rdb.Set(ctx, key, b, d.ttl).Err(); serr != nil {
			d.log.Warn("user cache write failed", map[string]any{"user_id": id, "error": serr.Error()})
		}
	}
	return u, nil
}
