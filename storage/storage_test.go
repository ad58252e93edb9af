package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Location
		wantErr bool
	}{
		{"plain path", "data/index.sbix", Location{Scheme: SchemeLocal, Key: "data/index.sbix"}, false},
		{"redis", "redis://localhost:6379/wiki.sbix", Location{Scheme: SchemeRedis, Host: "localhost:6379", Key: "wiki.sbix"}, false},
		{"s3 nested key", "s3://bench/indexes/wiki.sbix.zst", Location{Scheme: SchemeS3, Host: "bench", Key: "indexes/wiki.sbix.zst"}, false},
		{"file", "file:///tmp/store/wiki.sbix", Location{Scheme: SchemeFile, Host: "/tmp/store", Key: "wiki.sbix"}, false},
		{"empty", "", Location{}, true},
		{"s3 without key", "s3://bench/", Location{}, true},
		{"unknown scheme", "ftp://host/key", Location{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Scheme != SchemeLocal, got.IsRemote())
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("abracadabra"), 1000)
	for _, key := range []string{"index.sbix", "index.sbix.zst", "index.sbix.sz"} {
		t.Run(key, func(t *testing.T) {
			enc, err := Encode(key, data)
			require.NoError(t, err)
			if key != "index.sbix" {
				assert.Less(t, len(enc), len(data))
			}
			dec, err := Decode(key, enc)
			require.NoError(t, err)
			assert.Equal(t, data, dec)
		})
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode("x.zst", []byte("not zstd"))
	assert.Error(t, err)
	_, err = Decode("x.sz", []byte{0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.Exists(ctx, "a/b.sbix")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, "a/b.sbix")
	assert.True(t, errors.Is(err, ErrObjectNotFound))

	require.NoError(t, store.Put(ctx, "a/b.sbix", []byte("payload")))
	ok, err = store.Exists(ctx, "a/b.sbix")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, "a/b.sbix")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, store.Put(ctx, "a/b.sbix", []byte("replaced")))
	got, err = store.Get(ctx, "a/b.sbix")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got)
}

func TestOpenFileStore(t *testing.T) {
	dir := t.TempDir()
	loc, err := ParseLocation("file://" + dir + "/x.sbix")
	require.NoError(t, err)
	store, err := Open(context.Background(), loc, DefaultOptions())
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &LocalStore{}, store)

	_, err = Open(context.Background(), Location{Scheme: SchemeLocal, Key: "x"}, DefaultOptions())
	assert.Error(t, err)
}
