// Package benchmark_runner drives the latency and throughput probes over the
// benchmark suite and reports their results.
package benchmark_runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/google/uuid"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/query"
	"github.com/succinctbench/sbench/storage"
)

type openFunc func(ctx context.Context, desc backend.Descriptor, opts storage.Options) (backend.Backend, error)

// BenchmarkRunner runs a selection of the suite against the configured
// dataset. Backends are opened once per run, shared by every benchmark of the
// run and closed when it ends.
type BenchmarkRunner struct {
	cfg  Config
	open openFunc
	out  io.Writer

	backends map[bool]backend.Backend
	stats    map[string]*query.StatGroup
	start    time.Time
	end      time.Time

	testResult TestResult
}

// NewBenchmarkRunner returns a runner for cfg.
func NewBenchmarkRunner(cfg Config) *BenchmarkRunner {
	return &BenchmarkRunner{
		cfg:      cfg,
		open:     backend.Open,
		out:      os.Stdout,
		backends: make(map[bool]backend.Backend),
		stats:    make(map[string]*query.StatGroup),
	}
}

// Run executes every benchmark matching selector in suite order and stops at
// the first failure. On success the summary is printed and, if configured,
// the JSON result is written.
func (l *BenchmarkRunner) Run(ctx context.Context, selector string) (TestResult, error) {
	if err := l.cfg.Validate(); err != nil {
		return TestResult{}, err
	}
	benchmarks, err := Select(selector)
	if err != nil {
		return TestResult{}, err
	}
	defer l.closeBackends()
	l.stats = make(map[string]*query.StatGroup)

	rng := query.NewRand(l.cfg.Seed)
	l.testResult = TestResult{
		RunID:               uuid.New().String(),
		Metadata:            l.cfg.Metadata,
		ResultFormatVersion: CurrentResultFormatVersion,
		Selector:            selector,
		Configs:             l.cfg.parametersMap(),
	}
	l.start = time.Now()
	for _, b := range benchmarks {
		log.Printf("Benchmarking %s...", b.Name())
		res, err := l.runBenchmark(ctx, rng, b)
		if err != nil {
			return TestResult{}, errors.WithMessage(err, b.Name())
		}
		l.testResult.Results = append(l.testResult.Results, res)
	}
	l.end = time.Now()

	l.testResult.StartTime = l.start.Unix() * 1000
	l.testResult.EndTime = l.end.Unix() * 1000
	l.testResult.DurationMillis = l.end.Sub(l.start).Milliseconds()
	if err := l.summary(); err != nil {
		return TestResult{}, err
	}
	if l.cfg.JsonOutFile != "" {
		if err := writeJSON(l.cfg.JsonOutFile, l.testResult); err != nil {
			return TestResult{}, err
		}
	}
	return l.testResult, nil
}

// resultPath returns the result file of a latency benchmark.
func (l *BenchmarkRunner) resultPath(b Benchmark) string {
	return l.cfg.ResultsPath + "_" + b.Class + "_" + b.Method
}

func (l *BenchmarkRunner) backendFor(ctx context.Context, raw bool) (backend.Backend, error) {
	if b, ok := l.backends[raw]; ok {
		return b, nil
	}
	desc := backend.Descriptor{Source: l.cfg.DataPath, Mode: l.cfg.Mode, Raw: raw}
	if raw {
		desc.Source = l.cfg.rawPath()
	}
	b, err := l.open(ctx, desc, l.cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Printf("Opened %s (%s, %s)", desc.Source, desc.Mode, bytefmt.ByteSize(uint64(b.Size())))
	l.backends[raw] = b
	if !raw || l.testResult.DataSize == 0 {
		l.testResult.DataSize = b.Size()
		l.testResult.DataSizeHuman = bytefmt.ByteSize(uint64(b.Size()))
	}
	return b, nil
}

func (l *BenchmarkRunner) closeBackends() {
	for raw, b := range l.backends {
		if err := backend.Close(b); err != nil {
			log.Printf("[WARNING] closing backend: %v", err)
		}
		delete(l.backends, raw)
	}
}

// workload builds the queries of one benchmark.
func (l *BenchmarkRunner) workload(rng *rand.Rand, b Benchmark, size int64) (query.Workload, error) {
	count := classDefaults[b.Class].queries
	if l.cfg.Queries > 0 {
		count = l.cfg.Queries
	}
	switch {
	case b.Queries == query.PatternQuery:
		return query.ReadPatterns(l.cfg.QueriesPath, count)
	case b.Extract:
		limit := size - int64(l.cfg.ExtractLen)
		if limit <= 0 {
			return nil, errors.Newf(errors.InvalidArgument, "extract length %d does not fit in %d bytes of data", l.cfg.ExtractLen, size)
		}
		return query.GenerateOffsets(rng, count, limit, l.cfg.ExtractLen)
	default:
		return query.GenerateOffsets(rng, count, size, 0)
	}
}

func (l *BenchmarkRunner) warmupCount(b Benchmark) int {
	if l.cfg.WarmupQueries >= 0 {
		return l.cfg.WarmupQueries
	}
	return classDefaults[b.Class].warmup
}

func (l *BenchmarkRunner) runBenchmark(ctx context.Context, rng *rand.Rand, b Benchmark) (BenchmarkResult, error) {
	be, err := l.backendFor(ctx, b.Raw())
	if err != nil {
		return BenchmarkResult{}, err
	}
	w, err := l.workload(rng, b, be.Size())
	if err != nil {
		return BenchmarkResult{}, err
	}
	op := b.NewOp(be)
	res := BenchmarkResult{Name: b.Name(), Throughput: b.Throughput, Queries: w.Len()}

	start := time.Now()
	if b.Throughput {
		report, err := MeasureThroughput(ctx, w, op, l.cfg.throughputConfig())
		if err != nil {
			return BenchmarkResult{}, err
		}
		res.Workers = report.Workers
		res.PerWorker = report.PerWorker
		res.MeasuredQueries = report.Queries
		res.QPS = report.QPS
		res.ResultRate = report.ResultRate
		if b.Extract {
			res.ResultRateHumanReadable = bytefmt.ByteSize(uint64(report.ResultRate)) + "/sec"
		}
		log.Printf("Throughput of %s: %.2f queries/sec with %d threads", b.Name(), report.QPS, report.Workers)
	} else {
		report, err := l.runLatency(w, op, b)
		if err != nil {
			return BenchmarkResult{}, err
		}
		res.ResultFile = report.ResultFile
		res.Checksum = report.Checksum
		res.MeanLatencyNs = report.MeanNanos
		res.QuantilesNs = report.Quantiles
		l.stats[b.Name()] = report.Stats
		log.Printf("Average time per %s query: %.2f ns", b.Name(), report.MeanNanos)
	}
	res.DurationMillis = time.Since(start).Milliseconds()
	return res, nil
}

func (l *BenchmarkRunner) runLatency(w query.Workload, op Op, b Benchmark) (report LatencyReport, err error) {
	sink, err := OpenSink(l.resultPath(b))
	if err != nil {
		return LatencyReport{}, err
	}
	defer func() {
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Printf("[ERROR] %s failed, result file %s is invalid", b.Name(), sink.Path())
		}
	}()
	return MeasureLatency(w, op, l.warmupCount(b), sink)
}

// summary prints one line per benchmark of the run.
func (l *BenchmarkRunner) summary() error {
	took := l.end.Sub(l.start)
	fmt.Fprintf(l.out, "\nSummary:\n")
	fmt.Fprintf(l.out, "Ran %d benchmarks in %0.3fsec\n", len(l.testResult.Results), took.Seconds())

	w := new(tabwriter.Writer)
	w.Init(l.out, 12, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "benchmark\tqueries\tmean (us)\tq50 (us)\tq99 (us)\tthreads\tqueries/sec\tresult rate\t\n")
	for _, r := range l.testResult.Results {
		if r.Throughput {
			rate := fmt.Sprintf("%.0f", r.ResultRate)
			if r.ResultRateHumanReadable != "" {
				rate = r.ResultRateHumanReadable
			}
			fmt.Fprintf(w, "%s\t%d\t-\t-\t-\t%d\t%.0f\t%s\t\n", r.Name, r.Queries, r.Workers, r.QPS, rate)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3f\t1\t-\t-\t\n",
			r.Name, r.Queries,
			r.MeanLatencyNs/1e3,
			r.QuantilesNs["q50"]/1e3,
			r.QuantilesNs["q99"]/1e3)
	}
	if err := w.Flush(); err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot print summary")
	}
	if len(l.stats) > 0 {
		fmt.Fprintf(l.out, "\nLatency details:\n")
		if err := query.WriteStatGroupMap(l.out, l.stats); err != nil {
			return errors.WrapCode(err, errors.ResourceError, "cannot print summary")
		}
	}
	return nil
}

func writeJSON(path string, result TestResult) error {
	file, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot encode json result")
	}
	if err := os.WriteFile(path, file, 0644); err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot write json result")
	}
	return nil
}
