//go:build unix

package backend

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/succinctbench/sbench/errors"
)

// OpenMapped maps the index file at path read-only. The mapping is released
// by Close.
func OpenMapped(path string) (*Index, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	idx, err := newIndex(data, "mmap", unmap)
	if err != nil {
		_ = unmap()
		return nil, err
	}
	return idx, nil
}

// OpenMappedRaw maps the file at path read-only as a raw backend.
func OpenMappedRaw(path string) (*Raw, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &Raw{data: data, closeFn: unmap}, nil
}

func mapFile(path string) ([]byte, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.WrapCode(err, errors.BackendError, "cannot open file")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, errors.WrapCode(err, errors.BackendError, "cannot stat file")
	}
	if info.Size() == 0 {
		return nil, nil, errors.Newf(errors.BackendError, "cannot map empty file %s", path)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, errors.WrapCode(err, errors.BackendError, "cannot mmap file")
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
