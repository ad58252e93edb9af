package benchmark_runner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/succinctbench/sbench/errors"
)

const defaultWriteSize = 4 << 20 // 4 MB

// ResultSink appends one "<resultSummary>\t<elapsedNanos>" line per measured
// query to a result file.
type ResultSink struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// OpenSink creates (or truncates) the result file at path, creating its parent
// directory if needed.
func OpenSink(path string) (*ResultSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WrapCode(err, errors.ResourceError, "cannot create results directory")
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.ResourceError, "cannot create result file")
	}
	return &ResultSink{
		path: path,
		file: file,
		w:    bufio.NewWriterSize(file, defaultWriteSize),
	}, nil
}

// Path returns the location of the result file.
func (s *ResultSink) Path() string {
	return s.path
}

func (s *ResultSink) WriteRecord(summary, elapsedNanos int64) error {
	if s.file == nil {
		return errors.Newf(errors.ResourceError, "result file %s is closed", s.path)
	}
	if _, err := fmt.Fprintf(s.w, "%d\t%d\n", summary, elapsedNanos); err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot write result record")
	}
	return nil
}

// Close flushes buffered records and closes the file. Calling Close more than
// once is a no-op.
func (s *ResultSink) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return errors.WrapCode(flushErr, errors.ResourceError, "cannot flush result file")
	}
	if closeErr != nil {
		return errors.WrapCode(closeErr, errors.ResourceError, "cannot close result file")
	}
	return nil
}
