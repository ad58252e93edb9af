package backend

import (
	"context"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/storage"
)

// fetch materializes the object stored under key, decompressing it when the
// key names a compressed payload.
func fetch(ctx context.Context, store storage.ObjectStore, key string) ([]byte, error) {
	payload, err := store.Get(ctx, key)
	if err != nil {
		return nil, errors.WrapCode(err, errors.BackendError, "cannot fetch "+key)
	}
	data, err := storage.Decode(key, payload)
	if err != nil {
		return nil, errors.WrapCode(err, errors.BackendError, "cannot decode "+key)
	}
	return data, nil
}

// OpenRemote downloads the index stored under key and decodes it in memory.
func OpenRemote(ctx context.Context, store storage.ObjectStore, key string) (*Index, error) {
	data, err := fetch(ctx, store, key)
	if err != nil {
		return nil, err
	}
	return newIndex(data, "remote", nil)
}

// OpenRemoteRaw downloads the object stored under key as a raw backend.
func OpenRemoteRaw(ctx context.Context, store storage.ObjectStore, key string) (*Raw, error) {
	data, err := fetch(ctx, store, key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.Newf(errors.BackendError, "object %s is empty", key)
	}
	return NewRaw(data), nil
}
