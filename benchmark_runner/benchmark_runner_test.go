package benchmark_runner

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/query"
	"github.com/succinctbench/sbench/storage"
)

const corpus = "the quick brown fox jumps over the lazy dog\nthe five boxing wizards jump quickly\n"

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	text := []byte(strings.Repeat(corpus, 40))
	idx, err := backend.Build(text)
	require.NoError(t, err)
	dataPath := filepath.Join(dir, "data.sbix")
	require.NoError(t, os.WriteFile(dataPath, idx, 0644))

	var patterns bytes.Buffer
	require.NoError(t, query.WritePatterns(&patterns, [][]byte{[]byte("the"), []byte("jump"), []byte("fox"), []byte("zebra")}))
	queriesPath := filepath.Join(dir, "queries.txt")
	require.NoError(t, os.WriteFile(queriesPath, patterns.Bytes(), 0644))

	cfg := DefaultConfig()
	cfg.DataPath = dataPath
	cfg.QueriesPath = queriesPath
	cfg.ResultsPath = filepath.Join(dir, "results", "res")
	cfg.Queries = 20
	cfg.ExtractLen = 16
	cfg.Seed = 42
	cfg.Workers = 2
	cfg.Warmup = 0
	cfg.Measure = 100 * time.Millisecond
	cfg.Cooldown = 0
	cfg.JsonOutFile = filepath.Join(dir, "result.json")
	return cfg
}

func TestRunnerLatencyBenchmarks(t *testing.T) {
	cfg := testConfig(t)
	r := NewBenchmarkRunner(cfg)
	var out bytes.Buffer
	r.out = &out

	res, err := r.Run(context.Background(), "buffer")
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Equal(t, int64(len(corpus)*40), res.DataSize)
	assert.NotEmpty(t, res.RunID)

	for _, br := range res.Results {
		assert.False(t, br.Throughput)
		assert.Equal(t, 20, br.Queries)
		assert.Equal(t, cfg.ResultsPath+"_"+strings.Replace(br.Name, ".", "_", 1), br.ResultFile)
		lines := readLines(t, br.ResultFile)
		assert.Len(t, lines, 20)
	}
	assert.Contains(t, out.String(), "Summary:")
	assert.Contains(t, out.String(), "buffer.lookup-isa")

	data, err := os.ReadFile(cfg.JsonOutFile)
	require.NoError(t, err)
	var parsed TestResult
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, res.RunID, parsed.RunID)
	assert.Equal(t, "buffer", parsed.Selector)
	assert.Len(t, parsed.Results, 3)
}

func TestRunnerFileClass(t *testing.T) {
	cfg := testConfig(t)
	r := NewBenchmarkRunner(cfg)
	r.out = &bytes.Buffer{}

	res, err := r.Run(context.Background(), "file")
	require.NoError(t, err)
	require.Len(t, res.Results, 6)

	byName := map[string]BenchmarkResult{}
	for _, br := range res.Results {
		byName[br.Name] = br
	}

	// The query file holds fewer patterns than requested.
	assert.Equal(t, 4, byName["file.count"].Queries)
	lines := readLines(t, byName["file.count"].ResultFile)
	assert.Equal(t, []string{"120", "80", "40", "0"}, firstColumn(lines))

	for _, line := range readLines(t, byName["file.extract"].ResultFile) {
		assert.True(t, strings.HasPrefix(line, "16\t"), line)
	}

	thr := byName["file.extract-thr"]
	assert.True(t, thr.Throughput)
	assert.Equal(t, 2, thr.Workers)
	assert.Positive(t, thr.QPS)
	assert.NotEmpty(t, thr.ResultRateHumanReadable)
	_, err = os.Stat(cfg.ResultsPath + "_file_extract-thr")
	assert.True(t, os.IsNotExist(err))
}

func firstColumn(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, strings.SplitN(l, "\t", 2)[0])
	}
	return out
}

func TestRunnerRepeatedRuns(t *testing.T) {
	cfg := testConfig(t)
	cfg.JsonOutFile = ""
	r := NewBenchmarkRunner(cfg)
	r.out = &bytes.Buffer{}
	first, err := r.Run(context.Background(), "buffer.lookup-sa")
	require.NoError(t, err)

	var out bytes.Buffer
	r.out = &out
	second, err := r.Run(context.Background(), "buffer.lookup-isa")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	require.Len(t, second.Results, 1)
	assert.Equal(t, first.DataSize, second.DataSize)
	assert.Contains(t, out.String(), "buffer.lookup-isa:")
	assert.NotContains(t, out.String(), "buffer.lookup-sa")
}

func TestRunnerRawClass(t *testing.T) {
	cfg := testConfig(t)
	cfg.RawPath = filepath.Join(t.TempDir(), "raw.txt")
	require.NoError(t, os.WriteFile(cfg.RawPath, []byte(strings.Repeat(corpus, 10)), 0644))
	r := NewBenchmarkRunner(cfg)
	r.out = &bytes.Buffer{}

	res, err := r.Run(context.Background(), "raw.extract")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(len(corpus)*10), res.DataSize)
}

type failingBackend struct {
	backend.Backend
	closed bool
}

func (f *failingBackend) Size() int64 { return 1000 }

func (f *failingBackend) LookupPrimitive(backend.Primitive, int64) (int64, error) {
	return 0, errors.New(errors.BackendError, "lookup failed")
}

func (f *failingBackend) Close() error {
	f.closed = true
	return nil
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	cfg := testConfig(t)
	fb := &failingBackend{}
	r := NewBenchmarkRunner(cfg)
	r.out = &bytes.Buffer{}
	r.open = func(context.Context, backend.Descriptor, storage.Options) (backend.Backend, error) {
		return fb, nil
	}

	_, err := r.Run(context.Background(), "buffer")
	assert.True(t, errors.Is(err, errors.BackendError))
	assert.Contains(t, err.Error(), "buffer.lookup-npa")
	assert.True(t, fb.closed)

	// The partial result file was closed and left on disk.
	_, err = os.Stat(cfg.ResultsPath + "_buffer_lookup-npa")
	assert.NoError(t, err)
	_, err = os.Stat(cfg.ResultsPath + "_buffer_lookup-sa")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.JsonOutFile)
	assert.True(t, os.IsNotExist(err))
}

func TestRunnerInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 0
	_, err := NewBenchmarkRunner(cfg).Run(context.Background(), "all")
	assert.True(t, errors.Is(err, errors.InvalidArgument))

	cfg = testConfig(t)
	cfg.ExtractLen = 1 << 20
	r := NewBenchmarkRunner(cfg)
	r.out = &bytes.Buffer{}
	_, err = r.Run(context.Background(), "file.extract")
	assert.True(t, errors.Is(err, errors.InvalidArgument))

	_, err = NewBenchmarkRunner(testConfig(t)).Run(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.InvalidArgument))
}
