// Package backend provides the queryable stores that benchmarks run against.
//
// Every variant (heap-resident index, memory-mapped index, index materialized
// from a remote object store, raw byte buffer) satisfies the same read-only
// Backend interface. All methods are safe for unsynchronized concurrent use.
package backend

import (
	"io"

	"github.com/succinctbench/sbench/errors"
)

// Primitive selects the array read by LookupPrimitive.
type Primitive uint8

const (
	// SA is the suffix array.
	SA Primitive = iota + 1
	// ISA is the inverse suffix array.
	ISA
	// NPA is the next pointer array, NPA[i] = ISA[SA[i]+1].
	NPA
)

func (p Primitive) String() string {
	switch p {
	case SA:
		return "SA"
	case ISA:
		return "ISA"
	case NPA:
		return "NPA"
	default:
		return "unknown"
	}
}

// Backend is the operation interface exercised by the probes.
type Backend interface {
	// Size returns the length of the original input in bytes.
	Size() int64
	// LookupPrimitive returns entry i of the selected array.
	LookupPrimitive(kind Primitive, i int64) (int64, error)
	// Count returns the number of occurrences of pattern.
	Count(pattern []byte) (int64, error)
	// Search returns the offsets of every occurrence of pattern.
	Search(pattern []byte) ([]int64, error)
	// Extract returns up to length bytes starting at offset.
	Extract(offset int64, length int32) ([]byte, error)
}

// Close releases the resources held by b, if any.
func Close(b Backend) error {
	switch c := b.(type) {
	case io.Closer:
		return c.Close()
	}
	return nil
}

func errUnsupported(variant, op string) error {
	return errors.Newf(errors.BackendError, "%s backend does not support %s", variant, op)
}
