package backend

import (
	"context"
	"log"
	"strings"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/storage"
)

// Mode selects how a local dataset is brought into memory.
type Mode string

const (
	MemoryOnly   Mode = "MEMORY_ONLY"
	MemoryMapped Mode = "MEMORY_MAPPED"
)

// ParseMode parses a storage mode name, case-insensitively. The empty string
// selects MemoryOnly.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(s)) {
	case "", MemoryOnly:
		return MemoryOnly, nil
	case MemoryMapped:
		return MemoryMapped, nil
	default:
		return "", errors.Newf(errors.InvalidArgument, "unknown storage mode %q, want %s or %s", s, MemoryOnly, MemoryMapped)
	}
}

// Descriptor names the dataset a run is benchmarked against.
type Descriptor struct {
	// Source is a local path, redis://host:port/key or s3://bucket/key.
	Source string
	Mode   Mode
	// Raw serves the dataset as plain bytes instead of decoding an index.
	Raw bool
}

// Open builds the backend described by desc. Remote datasets are always
// materialized in memory, so MemoryMapped only applies to local files.
func Open(ctx context.Context, desc Descriptor, opts storage.Options) (Backend, error) {
	loc, err := storage.ParseLocation(desc.Source)
	if err != nil {
		return nil, errors.WrapCode(err, errors.InvalidArgument, "invalid data source")
	}
	mode := desc.Mode
	if mode == "" {
		mode = MemoryOnly
	}

	if !loc.IsRemote() {
		return openLocal(loc.Key, mode, desc.Raw)
	}

	if mode == MemoryMapped {
		return nil, errors.Newf(errors.InvalidArgument, "storage mode %s is not available for remote source %s", mode, loc)
	}
	store, err := storage.Open(ctx, loc, opts)
	if err != nil {
		return nil, errors.WrapCode(err, errors.BackendError, "cannot open object store")
	}
	defer store.Close()

	log.Printf("Fetching %s", loc)
	if desc.Raw {
		r, err := OpenRemoteRaw(ctx, store, loc.Key)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	idx, err := OpenRemote(ctx, store, loc.Key)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func openLocal(path string, mode Mode, raw bool) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch {
	case mode == MemoryMapped && raw:
		var r *Raw
		r, err = OpenMappedRaw(path)
		b = r
	case mode == MemoryMapped:
		var idx *Index
		idx, err = OpenMapped(path)
		b = idx
	case raw:
		var r *Raw
		r, err = OpenMemoryRaw(path)
		b = r
	default:
		var idx *Index
		idx, err = OpenMemory(path)
		b = idx
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
