package backend

import (
	"os"

	"github.com/succinctbench/sbench/errors"
)

// Raw serves extract queries straight from an uninterpreted byte buffer. It
// measures the cost of the storage path without any index on top.
type Raw struct {
	data    []byte
	closeFn func() error
}

// NewRaw wraps data without copying it.
func NewRaw(data []byte) *Raw {
	return &Raw{data: data}
}

// OpenMemoryRaw reads the file at path into the heap as a raw backend.
func OpenMemoryRaw(path string) (*Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.BackendError, "cannot read data file")
	}
	if len(data) == 0 {
		return nil, errors.Newf(errors.BackendError, "data file %s is empty", path)
	}
	return NewRaw(data), nil
}

func (r *Raw) Size() int64 {
	return int64(len(r.data))
}

func (r *Raw) LookupPrimitive(Primitive, int64) (int64, error) {
	return 0, errUnsupported("raw", "lookups")
}

func (r *Raw) Count([]byte) (int64, error) {
	return 0, errUnsupported("raw", "count")
}

func (r *Raw) Search([]byte) ([]int64, error) {
	return nil, errUnsupported("raw", "search")
}

func (r *Raw) Extract(offset int64, length int32) ([]byte, error) {
	return extract(r.data, offset, length)
}

func (r *Raw) Close() error {
	if r.closeFn == nil {
		return nil
	}
	fn := r.closeFn
	r.closeFn = nil
	return fn()
}
