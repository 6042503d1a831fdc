package redisblob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/internal/domain"
)

// fakeRedis guarda hashes en memoria y puede simular errores del servidor.
type fakeRedis struct {
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFake() *fakeRedis {
	return &fakeRedis{hashes: map[string]map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	h := map[string]string{}
	for i := 0; i+1 < len(values); i += 2 {
		field := values[i].(string)
		switch v := values[i+1].(type) {
		case []byte:
			h[field] = string(v)
		case string:
			h[field] = v
		}
	}
	f.hashes[key] = h
	return redis.NewIntResult(int64(len(h)), nil)
}

func (f *fakeRedis) HMGet(_ context.Context, key string, fields ...string) *redis.SliceCmd {
	out := make([]interface{}, len(fields))
	if h, ok := f.hashes[key]; ok {
		for i, field := range fields {
			if v, ok := h[field]; ok {
				out[i] = v
			}
		}
	}
	return redis.NewSliceResult(out, nil)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.hashes[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestStore_PutGetExists(t *testing.T) {
	fake := newFake()
	s := NewStore(fake, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "abc", []byte{0xff, 0xd8, 0x01}, "image/jpeg"))
	assert.Equal(t, 24*time.Hour, fake.ttls["blob:abc"])

	data, ct, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0x01}, data)
	assert.Equal(t, "image/jpeg", ct)

	ok, err := s.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, err = s.Get(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SinTTLNoExpira(t *testing.T) {
	fake := newFake()
	require.NoError(t, NewStore(fake, 0).Put(context.Background(), "k", []byte("x"), "text/plain"))
	assert.Empty(t, fake.ttls)
}

func TestStore_OOMEsCuota(t *testing.T) {
	fake := newFake()
	fake.failErr = errors.New("OOM command not allowed when used memory > 'maxmemory'.")
	err := NewStore(fake, 0).Put(context.Background(), "k", []byte("x"), "text/plain")

	assert.True(t, domain.IsQuotaExceeded(err))
	assert.ErrorIs(t, err, domain.ErrStorage)

	fake.failErr = errors.New("connection refused")
	err = NewStore(fake, 0).Put(context.Background(), "k", []byte("x"), "text/plain")
	assert.False(t, domain.IsQuotaExceeded(err))
	assert.ErrorIs(t, err, domain.ErrStorage)
}
