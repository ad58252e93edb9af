package query

import (
	"fmt"

	"github.com/succinctbench/sbench/errors"
)

// Kind tells which field of a Query is active.
type Kind uint8

const (
	// OffsetQuery drives lookup and extract benchmarks.
	OffsetQuery Kind = iota + 1
	// PatternQuery drives count and search benchmarks.
	PatternQuery
)

func (k Kind) String() string {
	switch k {
	case OffsetQuery:
		return "offset"
	case PatternQuery:
		return "pattern"
	default:
		return "unknown"
	}
}

// Query is a single benchmark request. Queries are values and are never
// mutated once they are part of a Workload.
type Query struct {
	Kind    Kind
	Offset  int64
	Length  int32
	Pattern []byte
}

// NewOffset returns an offset query reading length bytes at offset.
func NewOffset(offset int64, length int32) Query {
	return Query{Kind: OffsetQuery, Offset: offset, Length: length}
}

// NewPattern returns a pattern query.
func NewPattern(p []byte) Query {
	return Query{Kind: PatternQuery, Pattern: p}
}

// String produces a debug-ready description of a Query.
func (q Query) String() string {
	if q.Kind == PatternQuery {
		return fmt.Sprintf("Pattern: %q", q.Pattern)
	}
	return fmt.Sprintf("Offset: %d, Length: %d", q.Offset, q.Length)
}

// Workload is the fixed, ordered sequence of queries driving one probe. It is
// shared read-only by every worker.
type Workload []Query

// Len returns the number of queries.
func (w Workload) Len() int {
	return len(w)
}

// Kind returns the kind shared by every query in the workload. An empty
// workload or one that mixes kinds is rejected.
func (w Workload) Kind() (Kind, error) {
	if len(w) == 0 {
		return 0, errors.New(errors.InvalidArgument, "empty workload")
	}
	k := w[0].Kind
	for i := 1; i < len(w); i++ {
		if w[i].Kind != k {
			return 0, errors.Newf(errors.InvalidArgument, "workload mixes %s and %s queries at position %d", k, w[i].Kind, i)
		}
	}
	return k, nil
}
