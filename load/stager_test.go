package load

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/storage"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestStage(t *testing.T) {
	ctx := context.Background()
	data := bytes.Repeat([]byte("staged payload "), 512)
	path := writeTemp(t, data)

	tests := []struct {
		name string
		key  string
	}{
		{"identity", "data.sbix"},
		{"zstd", "data.sbix.zst"},
		{"snappy", "data.sbix.sz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := storage.NewLocalStore(t.TempDir())
			require.NoError(t, err)
			s := NewStager(store)

			res, err := s.Stage(ctx, path, tt.key, false)
			require.NoError(t, err)
			assert.False(t, res.Skipped)
			assert.Equal(t, uint64(len(data)), res.BytesIn)
			assert.NotZero(t, res.BytesOut)

			payload, err := store.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, res.BytesOut, uint64(len(payload)))
			got, err := storage.Decode(tt.key, payload)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestStageSkipsExisting(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "data.sbix", []byte("old")))

	s := NewStager(store)
	path := writeTemp(t, []byte("new"))

	res, err := s.Stage(ctx, path, "data.sbix", false)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	got, err := store.Get(ctx, "data.sbix")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)

	res, err = s.Stage(ctx, path, "data.sbix", true)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	got, err = store.Get(ctx, "data.sbix")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestStageMissingInput(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = NewStager(store).Stage(context.Background(), filepath.Join(t.TempDir(), "nope"), "k", false)
	assert.True(t, errors.Is(err, errors.ResourceError))
}

func TestStageResultString(t *testing.T) {
	assert.Equal(t, "k (skipped)", StageResult{Key: "k", Skipped: true}.String())
	r := StageResult{Key: "k", BytesIn: 2048, BytesOut: 1024}
	assert.Equal(t, 2.0, r.Ratio())
	assert.Contains(t, r.String(), "2K in, 1K out")
}
