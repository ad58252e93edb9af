package storage

import (
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compression suffixes recognised on object keys.
const (
	ZstdSuffix   = ".zst"
	SnappySuffix = ".sz"
)

// Encode compresses data according to the suffix of key. Keys without a known
// suffix are stored as is.
func Encode(key string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(key, ZstdSuffix):
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create zstd encoder")
		}
		defer encoder.Close()
		return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case strings.HasSuffix(key, SnappySuffix):
		return snappy.Encode(nil, data), nil
	default:
		return data, nil
	}
}

// Decode reverses Encode for the same key.
func Decode(key string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(key, ZstdSuffix):
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create zstd decoder")
		}
		defer decoder.Close()
		out, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decompress %s", key)
		}
		return out, nil
	case strings.HasSuffix(key, SnappySuffix):
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decompress %s", key)
		}
		return out, nil
	default:
		return data, nil
	}
}
