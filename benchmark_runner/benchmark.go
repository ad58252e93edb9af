package benchmark_runner

import (
	"strings"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/query"
)

// Benchmark classes.
const (
	ClassBuffer = "buffer"
	ClassFile   = "file"
	ClassRaw    = "raw"
)

// Benchmark is one named probe of the suite.
type Benchmark struct {
	Class  string
	Method string
	// Throughput selects MeasureThroughput instead of MeasureLatency.
	Throughput bool
	// Queries is the kind of workload the benchmark runs.
	Queries query.Kind
	// Extract benchmarks draw offsets leaving room for a full extract.
	Extract bool
	NewOp   func(b backend.Backend) Op
}

// Name returns the selector naming the benchmark, class.method.
func (b Benchmark) Name() string {
	return b.Class + "." + b.Method
}

// Raw reports whether the benchmark runs against a raw backend.
func (b Benchmark) Raw() bool {
	return b.Class == ClassRaw
}

// classDefaults holds the workload size and latency warmup count per class.
var classDefaults = map[string]struct {
	queries int
	warmup  int
}{
	ClassBuffer: {queries: 10000, warmup: 1000},
	ClassFile:   {queries: 1000, warmup: 100},
	ClassRaw:    {queries: 100000, warmup: 10000},
}

func lookup(kind backend.Primitive) func(backend.Backend) Op {
	return func(b backend.Backend) Op {
		return LookupOp(b, kind)
	}
}

// Suite lists every benchmark in run order.
var Suite = []Benchmark{
	{Class: ClassBuffer, Method: "lookup-npa", Queries: query.OffsetQuery, NewOp: lookup(backend.NPA)},
	{Class: ClassBuffer, Method: "lookup-sa", Queries: query.OffsetQuery, NewOp: lookup(backend.SA)},
	{Class: ClassBuffer, Method: "lookup-isa", Queries: query.OffsetQuery, NewOp: lookup(backend.ISA)},
	{Class: ClassFile, Method: "count", Queries: query.PatternQuery, NewOp: CountOp},
	{Class: ClassFile, Method: "search", Queries: query.PatternQuery, NewOp: SearchOp},
	{Class: ClassFile, Method: "extract", Queries: query.OffsetQuery, Extract: true, NewOp: ExtractOp},
	{Class: ClassFile, Method: "count-thr", Throughput: true, Queries: query.PatternQuery, NewOp: CountOp},
	{Class: ClassFile, Method: "search-thr", Throughput: true, Queries: query.PatternQuery, NewOp: SearchOp},
	{Class: ClassFile, Method: "extract-thr", Throughput: true, Queries: query.OffsetQuery, Extract: true, NewOp: ExtractOp},
	{Class: ClassRaw, Method: "extract", Queries: query.OffsetQuery, Extract: true, NewOp: ExtractOp},
	{Class: ClassRaw, Method: "extract-thr", Throughput: true, Queries: query.OffsetQuery, Extract: true, NewOp: ExtractOp},
}

// Select returns the benchmarks matching selector: "all", a class name, or
// class.method. An empty method ("file.") selects the whole class.
func Select(selector string) ([]Benchmark, error) {
	if selector == "" || selector == "all" {
		return Suite, nil
	}
	class, method := selector, ""
	if i := strings.IndexByte(selector, '.'); i >= 0 {
		class, method = selector[:i], selector[i+1:]
	}
	if _, ok := classDefaults[class]; !ok {
		return nil, errors.Newf(errors.InvalidArgument, "unknown benchmark class %q, want one of %s, %s or %s", class, ClassBuffer, ClassFile, ClassRaw)
	}
	var selected []Benchmark
	for _, b := range Suite {
		if b.Class == class && (method == "" || b.Method == method) {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		return nil, errors.Newf(errors.InvalidArgument, "unknown benchmark %q", selector)
	}
	return selected, nil
}
