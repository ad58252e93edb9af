package query

import (
	"bufio"
	"bytes"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/succinctbench/sbench/errors"
)

const (
	defaultReadSize  = 4 << 20 // 4 MB
	maxPatternLength = 1 << 20
)

// NewRand returns the PRNG used for workload generation. A zero seed uses the
// current timestamp.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GenerateOffsets returns count offset queries uniformly distributed in
// [0, limit). Every query carries the same extract length.
func GenerateOffsets(rng *rand.Rand, count int, limit int64, length int32) (Workload, error) {
	if limit <= 0 {
		return nil, errors.Newf(errors.InvalidArgument, "offset limit must be positive, got %d", limit)
	}
	if count < 0 {
		return nil, errors.Newf(errors.InvalidArgument, "query count must not be negative, got %d", count)
	}
	if length < 0 {
		return nil, errors.Newf(errors.InvalidArgument, "extract length must not be negative, got %d", length)
	}
	w := make(Workload, count)
	for i := range w {
		w[i] = NewOffset(rng.Int63n(limit), length)
	}
	return w, nil
}

// ReadPatterns reads up to maxCount newline-delimited patterns from path. When
// the file holds fewer records a warning is logged and the shorter workload is
// returned.
func ReadPatterns(path string, maxCount int) (Workload, error) {
	if maxCount <= 0 {
		return nil, errors.Newf(errors.InvalidArgument, "pattern count must be positive, got %d", maxCount)
	}
	if path == "" {
		return nil, errors.New(errors.InvalidArgument, "query file must be specified for pattern benchmarks")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.ResourceError, "cannot open query file")
	}
	defer file.Close()

	w, err := scanPatterns(bufio.NewReaderSize(file, defaultReadSize), maxCount)
	if err != nil {
		return nil, errors.WrapCode(err, errors.ResourceError, "cannot read query file "+path)
	}
	if len(w) < maxCount {
		log.Printf("[WARNING] %v", errors.Newf(errors.WorkloadUnderflow, "number of queries in %s is %d, less than %d", path, len(w), maxCount))
	}
	return w, nil
}

func scanPatterns(r io.Reader, maxCount int) (Workload, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxPatternLength)

	w := make(Workload, 0, maxCount)
	for len(w) < maxCount && scanner.Scan() {
		line := bytes.TrimSuffix(scanner.Bytes(), []byte{'\r'})
		p := make([]byte, len(line))
		copy(p, line)
		w = append(w, NewPattern(p))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return w, nil
}

// SamplePatterns draws count substrings of the given length from data. Samples
// containing a line break are redrawn so the result can be written as a
// newline-delimited query file.
func SamplePatterns(rng *rand.Rand, data []byte, count, length int) ([][]byte, error) {
	if length <= 0 {
		return nil, errors.Newf(errors.InvalidArgument, "pattern length must be positive, got %d", length)
	}
	if count < 0 {
		return nil, errors.Newf(errors.InvalidArgument, "pattern count must not be negative, got %d", count)
	}
	if len(data) < length {
		return nil, errors.Newf(errors.InvalidArgument, "data (%d bytes) is shorter than pattern length %d", len(data), length)
	}
	limit := len(data) - length + 1
	maxAttempts := 100 * (count + 1)

	patterns := make([][]byte, 0, count)
	for attempts := 0; len(patterns) < count; attempts++ {
		if attempts >= maxAttempts {
			return nil, errors.Newf(errors.InvalidArgument, "could not sample %d patterns of length %d without line breaks", count, length)
		}
		off := rng.Intn(limit)
		p := data[off : off+length]
		if bytes.ContainsAny(p, "\r\n") {
			continue
		}
		patterns = append(patterns, append([]byte(nil), p...))
	}
	return patterns, nil
}

// WritePatterns writes one pattern per line.
func WritePatterns(w io.Writer, patterns [][]byte) error {
	bw := bufio.NewWriterSize(w, defaultReadSize)
	for _, p := range patterns {
		if _, err := bw.Write(p); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
