package storage

import (
	"context"

	"github.com/mediocregopher/radix/v3"
	"github.com/pkg/errors"
)

// RedisStore keeps each object as a single redis string value.
type RedisStore struct {
	pool *radix.Pool
}

// NewRedisStore connects a pool of size connections to addr. Extra pool
// options are applied after the defaults.
func NewRedisStore(addr string, size int, opts ...radix.PoolOpt) (*RedisStore, error) {
	if size <= 0 {
		size = 1
	}
	opts = append([]radix.PoolOpt{radix.PoolPipelineWindow(0, 0)}, opts...)
	pool, err := radix.NewPool("tcp", addr, size, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to redis at %s", addr)
	}
	return &RedisStore{pool: pool}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	mn := radix.MaybeNil{Rcv: &data}
	if err := s.pool.Do(radix.Cmd(&mn, "GET", key)); err != nil {
		return nil, errors.Wrapf(err, "redis GET %s", key)
	}
	if mn.Nil {
		return nil, errors.Wrap(ErrObjectNotFound, key)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.pool.Do(radix.FlatCmd(nil, "SET", key, data)); err != nil {
		return errors.Wrapf(err, "redis SET %s", key)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	if err := s.pool.Do(radix.Cmd(&n, "EXISTS", key)); err != nil {
		return false, errors.Wrapf(err, "redis EXISTS %s", key)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.pool.Close()
}
