package backend

import (
	"os"

	"github.com/succinctbench/sbench/errors"
)

// OpenMemory reads the whole index file at path into the heap.
func OpenMemory(path string) (*Index, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.BackendError, "cannot read index file")
	}
	return newIndex(buf, "memory", nil)
}
