package benchmark_runner

import (
	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/query"
)

// Op runs one query against a backend and returns its result summary: the
// primitive value for lookups, the number of matches for count and search,
// the number of bytes for extract.
type Op func(q query.Query) (int64, error)

// LookupOp reads entry q.Offset of the selected array.
func LookupOp(b backend.Backend, kind backend.Primitive) Op {
	return func(q query.Query) (int64, error) {
		return b.LookupPrimitive(kind, q.Offset)
	}
}

func CountOp(b backend.Backend) Op {
	return func(q query.Query) (int64, error) {
		return b.Count(q.Pattern)
	}
}

func SearchOp(b backend.Backend) Op {
	return func(q query.Query) (int64, error) {
		res, err := b.Search(q.Pattern)
		return int64(len(res)), err
	}
}

func ExtractOp(b backend.Backend) Op {
	return func(q query.Query) (int64, error) {
		res, err := b.Extract(q.Offset, q.Length)
		return int64(len(res)), err
	}
}
