//go:build !unix

package backend

import (
	"github.com/succinctbench/sbench/errors"
)

// OpenMapped is only available on unix systems.
func OpenMapped(path string) (*Index, error) {
	return nil, errors.Newf(errors.InvalidArgument, "memory-mapped storage is not supported on this platform (%s)", path)
}

// OpenMappedRaw is only available on unix systems.
func OpenMappedRaw(path string) (*Raw, error) {
	return nil, errors.Newf(errors.InvalidArgument, "memory-mapped storage is not supported on this platform (%s)", path)
}
