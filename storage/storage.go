// Package storage provides the object stores a serialized index can be
// materialized from or staged to.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrObjectNotFound is returned when a key does not exist in a store.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore abstracts the remote stores holding serialized datasets.
type ObjectStore interface {
	// Get returns the full contents stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases connections held by the store.
	Close() error
}

// Options configures the stores built by Open.
type Options struct {
	// RedisPoolSize is the number of connections in the redis pool.
	RedisPoolSize int
	// S3 holds the S3 client configuration.
	S3 S3Config
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		RedisPoolSize: 1,
		S3:            DefaultS3Config(),
	}
}

// Open returns the store addressed by loc.
func Open(ctx context.Context, loc Location, opts Options) (ObjectStore, error) {
	var (
		store ObjectStore
		err   error
	)
	switch loc.Scheme {
	case SchemeRedis:
		var rs *RedisStore
		rs, err = NewRedisStore(loc.Host, opts.RedisPoolSize)
		store = rs
	case SchemeS3:
		var ss *S3Store
		ss, err = NewS3Store(ctx, loc.Host, opts.S3)
		store = ss
	case SchemeFile:
		var ls *LocalStore
		ls, err = NewLocalStore(loc.Host)
		store = ls
	default:
		return nil, errors.Errorf("no object store for scheme %q", loc.Scheme)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
