package backend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/storage"
)

const sample = "mississippi banana bandana\nabracadabra"

func bruteForce(text, pattern []byte) []int64 {
	var res []int64
	for i := 0; i+len(pattern) <= len(text); i++ {
		if bytes.HasPrefix(text[i:], pattern) {
			res = append(res, int64(i))
		}
	}
	return res
}

func buildIndex(t *testing.T, text string) *Index {
	t.Helper()
	buf, err := Build([]byte(text))
	require.NoError(t, err)
	idx, err := NewIndex(buf)
	require.NoError(t, err)
	return idx
}

func writeIndex(t *testing.T, text string) string {
	t.Helper()
	buf, err := Build([]byte(text))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "data.sbix")
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func TestCountAndSearch(t *testing.T) {
	idx := buildIndex(t, sample)
	tests := []string{"a", "an", "ana", "issi", "ssi", "abra", "\n", "zzz", "mississippi banana"}
	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			want := bruteForce([]byte(sample), []byte(p))

			count, err := idx.Count([]byte(p))
			require.NoError(t, err)
			assert.Equal(t, int64(len(want)), count)

			got, err := idx.Search([]byte(p))
			require.NoError(t, err)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestCountEmptyPattern(t *testing.T) {
	idx := buildIndex(t, sample)
	count, err := idx.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len(sample)), count)
}

func TestPrimitives(t *testing.T) {
	idx := buildIndex(t, "banana")
	n := idx.Size()
	require.Equal(t, int64(6), n)

	// Suffixes of "banana" in order: a, ana, anana, banana, na, nana.
	wantSA := []int64{5, 3, 1, 0, 4, 2}
	for i, want := range wantSA {
		got, err := idx.LookupPrimitive(SA, int64(i))
		require.NoError(t, err)
		assert.Equal(t, want, got)

		isa, err := idx.LookupPrimitive(ISA, want)
		require.NoError(t, err)
		assert.Equal(t, int64(i), isa)

		npa, err := idx.LookupPrimitive(NPA, int64(i))
		require.NoError(t, err)
		next, err := idx.LookupPrimitive(ISA, (want+1)%n)
		require.NoError(t, err)
		assert.Equal(t, next, npa)
	}

	_, err := idx.LookupPrimitive(SA, n)
	assert.True(t, errors.Is(err, errors.BackendError))
	_, err = idx.LookupPrimitive(NPA, -1)
	assert.True(t, errors.Is(err, errors.BackendError))
}

func TestExtract(t *testing.T) {
	idx := buildIndex(t, "abcdefgh")
	tests := []struct {
		name    string
		offset  int64
		length  int32
		want    string
		wantErr bool
	}{
		{"inside", 2, 3, "cde", false},
		{"clamped at end", 6, 10, "gh", false},
		{"zero length", 0, 0, "", false},
		{"offset past end", 8, 1, "", true},
		{"negative offset", -1, 1, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Extract(tt.offset, tt.length)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.BackendError))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	buf, err := Build([]byte("hello"))
	require.NoError(t, err)

	tests := map[string][]byte{
		"short":     buf[:10],
		"truncated": buf[:len(buf)-1],
		"magic":     append([]byte("XXXX"), buf[4:]...),
	}
	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewIndex(b)
			assert.True(t, errors.Is(err, errors.BackendError))
		})
	}

	_, err = Build(nil)
	assert.True(t, errors.Is(err, errors.InvalidArgument))
}

func TestMappedMatchesMemory(t *testing.T) {
	path := writeIndex(t, sample)

	mem, err := OpenMemory(path)
	require.NoError(t, err)
	mapped, err := OpenMapped(path)
	require.NoError(t, err)
	defer Close(mapped)

	require.Equal(t, mem.Size(), mapped.Size())
	for i := int64(0); i < mem.Size(); i++ {
		for _, kind := range []Primitive{SA, ISA, NPA} {
			a, err := mem.LookupPrimitive(kind, i)
			require.NoError(t, err)
			b, err := mapped.LookupPrimitive(kind, i)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	}
	a, _ := mem.Search([]byte("an"))
	b, _ := mapped.Search([]byte("an"))
	assert.Equal(t, a, b)
	assert.NoError(t, mapped.Close())
	assert.NoError(t, mapped.Close())
}

func TestRawUnsupported(t *testing.T) {
	r := NewRaw([]byte("0123456789"))
	assert.Equal(t, int64(10), r.Size())

	got, err := r.Extract(7, 5)
	require.NoError(t, err)
	assert.Equal(t, "789", string(got))

	_, err = r.Count([]byte("1"))
	assert.True(t, errors.Is(err, errors.BackendError))
	_, err = r.Search([]byte("1"))
	assert.True(t, errors.Is(err, errors.BackendError))
	_, err = r.LookupPrimitive(SA, 0)
	assert.True(t, errors.Is(err, errors.BackendError))
}

func TestOpenRemote(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	buf, err := Build([]byte(sample))
	require.NoError(t, err)
	enc, err := storage.Encode("data.sbix.zst", buf)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "data.sbix.zst", enc))

	idx, err := OpenRemote(ctx, store, "data.sbix.zst")
	require.NoError(t, err)
	count, err := idx.Count([]byte("ana"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(bruteForce([]byte(sample), []byte("ana")))), count)

	_, err = OpenRemote(ctx, store, "missing.sbix")
	assert.True(t, errors.Is(err, errors.BackendError))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	path := writeIndex(t, sample)

	tests := []struct {
		name    string
		desc    Descriptor
		wantErr errors.Code
	}{
		{"memory", Descriptor{Source: path, Mode: MemoryOnly}, ""},
		{"mapped", Descriptor{Source: path, Mode: MemoryMapped}, ""},
		{"default mode", Descriptor{Source: path}, ""},
		{"raw", Descriptor{Source: path, Raw: true}, ""},
		{"mapped raw", Descriptor{Source: path, Mode: MemoryMapped, Raw: true}, ""},
		{"file store", Descriptor{Source: "file://" + path}, ""},
		{"remote mapped", Descriptor{Source: "file://" + path, Mode: MemoryMapped}, errors.InvalidArgument},
		{"missing file", Descriptor{Source: path + ".missing"}, errors.BackendError},
		{"bad source", Descriptor{Source: "ftp://x/y"}, errors.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(ctx, tt.desc, storage.DefaultOptions())
			if tt.wantErr != "" {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			defer Close(b)
			if tt.desc.Raw {
				assert.Equal(t, int64(len(readAll(t, path))), b.Size())
			} else {
				assert.Equal(t, int64(len(sample)), b.Size())
			}
		})
	}
}

func readAll(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("memory_mapped")
	require.NoError(t, err)
	assert.Equal(t, MemoryMapped, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, MemoryOnly, m)
	_, err = ParseMode("disk")
	assert.True(t, errors.Is(err, errors.InvalidArgument))
}
