// Package load stages local datasets into the object stores the remote
// backends read from.
package load

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/storage"
)

const defaultReadSize = 4 << 20 // 4 MB

// change for more useful testing
var logFn = log.Printf

// Stager copies local files into an ObjectStore.
type Stager struct {
	store storage.ObjectStore
}

// NewStager returns a Stager writing to store. The caller keeps ownership of
// store.
func NewStager(store storage.ObjectStore) *Stager {
	return &Stager{store: store}
}

// Stage uploads the file at localPath under key, compressing it according to
// the key suffix. An existing object is left alone unless overwrite is set.
func (s *Stager) Stage(ctx context.Context, localPath, key string, overwrite bool) (StageResult, error) {
	res := StageResult{Key: key}

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return res, errors.WrapCode(err, errors.ResourceError, "cannot check "+key)
	}
	if exists && !overwrite {
		res.Skipped = true
		logFn("Object %s already exists, skipping (use --overwrite to replace it)", key)
		return res, nil
	}

	start := time.Now()
	data, err := readFile(localPath)
	if err != nil {
		return res, err
	}
	res.BytesIn = uint64(len(data))

	payload, err := storage.Encode(key, data)
	if err != nil {
		return res, errors.WrapCode(err, errors.ResourceError, "cannot encode "+key)
	}
	res.BytesOut = uint64(len(payload))

	if err := s.store.Put(ctx, key, payload); err != nil {
		return res, errors.WrapCode(err, errors.ResourceError, "cannot upload "+key)
	}
	res.Took = time.Since(start)
	logFn("Staged %s", res)
	return res, nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.ResourceError, "cannot open "+path)
	}
	defer file.Close()

	data, err := io.ReadAll(bufio.NewReaderSize(file, defaultReadSize))
	if err != nil {
		return nil, errors.WrapCode(err, errors.ResourceError, "cannot read "+path)
	}
	if len(data) == 0 {
		return nil, errors.Newf(errors.InvalidArgument, "%s is empty", path)
	}
	return data, nil
}
