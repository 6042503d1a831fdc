package redisblob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain"
)

var _ ports.BlobStore = (*Store)(nil)

const keyPrefix = "blob:"

// client es el subconjunto de *redis.Client que usa el almacén.
type client interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Store guarda evidencias y artes en Redis como hash {data, ct}.
// Con maxmemory configurado, un OOM se reporta como error de cuota.
type Store struct {
	rdb client
	ttl time.Duration
}

// NewStore envuelve un cliente ya conectado. ttl 0 = sin expiración.
func NewStore(rdb client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Connect abre el cliente y verifica la conexión con PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar redis: %w", err)
	}
	return rdb, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	k := keyPrefix + key
	if err := s.rdb.HSet(ctx, k, "data", data, "ct", contentType).Err(); err != nil {
		return classify("put", err)
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, k, s.ttl).Err(); err != nil {
			return classify("expire", err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	vals, err := s.rdb.HMGet(ctx, keyPrefix+key, "data", "ct").Result()
	if err != nil {
		return nil, "", classify("get", err)
	}
	if len(vals) < 2 || vals[0] == nil {
		return nil, "", domain.ErrNotFound
	}
	data, _ := vals[0].(string)
	ct, _ := vals[1].(string)
	return []byte(data), ct, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, classify("exists", err)
	}
	return n > 0, nil
}

// classify traduce errores de Redis; "OOM command not allowed" es cuota agotada.
func classify(op string, err error) error {
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotFound
	}
	return &domain.StorageError{Op: "redis " + op, Quota: strings.HasPrefix(err.Error(), "OOM"), Err: err}
}
