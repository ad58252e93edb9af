package benchmark_runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/query"
)

// Phase is one wall-clock bounded stage of a throughput worker.
type Phase uint8

const (
	Warmup Phase = iota
	Measure
	Cooldown
)

func (p Phase) String() string {
	switch p {
	case Warmup:
		return "warmup"
	case Measure:
		return "measure"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// ThroughputConfig configures MeasureThroughput.
type ThroughputConfig struct {
	Workers  int
	Warmup   time.Duration
	Measure  time.Duration
	Cooldown time.Duration
	// MaxRPS caps the queries per second issued by all workers together. 0
	// means no limit.
	MaxRPS uint64
}

func (c ThroughputConfig) validate() error {
	switch {
	case c.Workers <= 0:
		return errors.Newf(errors.InvalidArgument, "worker count must be positive, got %d", c.Workers)
	case c.Measure <= 0:
		return errors.Newf(errors.InvalidArgument, "measure duration must be positive, got %v", c.Measure)
	case c.Warmup < 0:
		return errors.Newf(errors.InvalidArgument, "warmup duration must not be negative, got %v", c.Warmup)
	case c.Cooldown < 0:
		return errors.Newf(errors.InvalidArgument, "cooldown duration must not be negative, got %v", c.Cooldown)
	}
	return nil
}

func (c ThroughputConfig) duration(p Phase) time.Duration {
	switch p {
	case Warmup:
		return c.Warmup
	case Measure:
		return c.Measure
	default:
		return c.Cooldown
	}
}

// WorkerSlice is the contiguous range of the workload a worker cycles
// through.
type WorkerSlice struct {
	Start  int
	Len    int
	cursor int
}

// Next returns the workload position of the next query and advances the
// cursor, wrapping to the start of the slice.
func (s *WorkerSlice) Next() int {
	i := s.Start + s.cursor
	s.cursor++
	if s.cursor >= s.Len {
		s.cursor = 0
	}
	return i
}

// Partition splits a workload of n queries over workers. Worker k starts at
// k*(n/workers); the last worker also takes the remainder. With fewer
// queries than workers, worker k repeats query k%n.
func Partition(n, workers int) ([]WorkerSlice, error) {
	if n <= 0 {
		return nil, errors.Newf(errors.InvalidArgument, "cannot partition %d queries", n)
	}
	if workers <= 0 {
		return nil, errors.Newf(errors.InvalidArgument, "worker count must be positive, got %d", workers)
	}
	slices := make([]WorkerSlice, workers)
	if n < workers {
		for k := range slices {
			slices[k] = WorkerSlice{Start: k % n, Len: 1}
		}
		return slices, nil
	}
	per := n / workers
	for k := range slices {
		slices[k] = WorkerSlice{Start: k * per, Len: per}
	}
	slices[workers-1].Len = n - (workers-1)*per
	return slices, nil
}

// ThroughputReport summarizes one MeasureThroughput call.
type ThroughputReport struct {
	Workers   int
	PerWorker []Stat
	Measure   time.Duration
	// Queries is the number of queries completed during the measure phase
	// by all workers.
	Queries    int64
	SumResults int64
	QPS        float64
	// ResultRate is SumResults per second of measurement, bytes/sec for
	// extract benchmarks.
	ResultRate float64
}

// MeasureThroughput runs cfg.Workers workers over their partitions of w.
// Each worker goes through warmup, measure and cooldown back to back; only
// queries completed during measure are counted. Counters are read after
// every worker has returned. If any op fails, the remaining workers stop
// early and the error is returned without a report.
func MeasureThroughput(ctx context.Context, w query.Workload, op Op, cfg ThroughputConfig) (ThroughputReport, error) {
	if err := cfg.validate(); err != nil {
		return ThroughputReport{}, err
	}
	if _, err := w.Kind(); err != nil {
		return ThroughputReport{}, err
	}
	slices, err := Partition(len(w), cfg.Workers)
	if err != nil {
		return ThroughputReport{}, err
	}

	var limiter *rate.Limiter
	if cfg.MaxRPS != 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxRPS), cfg.Workers)
	}

	stats := make([]Stat, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for k := range slices {
		k := k
		stats[k] = Stat{Worker: k, Start: slices[k].Start, Len: slices[k].Len}
		g.Go(func() error {
			return work(gctx, w, op, cfg, &slices[k], limiter, &stats[k])
		})
	}
	if err := g.Wait(); err != nil {
		return ThroughputReport{}, err
	}

	report := ThroughputReport{
		Workers:   cfg.Workers,
		PerWorker: stats,
		Measure:   cfg.Measure,
	}
	for _, s := range stats {
		report.Queries += s.MeasureQueries
		report.SumResults += s.SumResults
	}
	report.QPS = float64(report.Queries) / cfg.Measure.Seconds()
	report.ResultRate = float64(report.SumResults) / cfg.Measure.Seconds()
	return report, nil
}

// work is the processing function for each throughput worker.
func work(ctx context.Context, w query.Workload, op Op, cfg ThroughputConfig, slice *WorkerSlice, limiter *rate.Limiter, stat *Stat) error {
	done := ctx.Done()
	for _, p := range []Phase{Warmup, Measure, Cooldown} {
		deadline := time.Now().Add(cfg.duration(p))
		for time.Now().Before(deadline) {
			select {
			case <-done:
				return ctx.Err()
			default:
			}
			if limiter != nil {
				admitted, err := pace(ctx, limiter, deadline)
				if err != nil {
					return err
				}
				if !admitted {
					break
				}
			}
			i := slice.Next()
			res, err := op(w[i])
			if err != nil {
				return errors.WithMessagef(err, "worker %d, %s query %d (%s)", stat.Worker, p, i, w[i])
			}
			stat.add(p, res)
		}
	}
	return nil
}

// pace blocks until limiter admits one more query before deadline. When no
// token fits in the phase the worker idles until deadline and pace returns
// false.
func pace(ctx context.Context, limiter *rate.Limiter, deadline time.Time) (bool, error) {
	wctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	if err := limiter.Wait(wctx); err == nil {
		return time.Now().Before(deadline), nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-wctx.Done():
		return false, nil
	}
}
