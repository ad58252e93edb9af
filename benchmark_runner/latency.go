package benchmark_runner

import (
	"log"
	"time"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/query"
)

// LatencyReport summarizes one MeasureLatency call.
type LatencyReport struct {
	Queries    int
	Checksum   int64
	TotalNanos int64
	MeanNanos  float64
	SumResults int64
	Quantiles  map[string]float64
	ResultFile string
	Stats      *query.StatGroup
}

// MeasureLatency runs op over the first warmupCount queries without timing
// them, then times every query of the workload one at a time and writes one
// record per query to sink. The measured pass always covers the whole
// workload.
func MeasureLatency(w query.Workload, op Op, warmupCount int, sink *ResultSink) (LatencyReport, error) {
	if _, err := w.Kind(); err != nil {
		return LatencyReport{}, err
	}
	if warmupCount < 0 {
		return LatencyReport{}, errors.Newf(errors.InvalidArgument, "warmup count must not be negative, got %d", warmupCount)
	}
	if sink == nil {
		return LatencyReport{}, errors.New(errors.InvalidArgument, "no result sink")
	}
	if warmupCount > len(w) {
		warmupCount = len(w)
	}

	var checksum int64
	for i := 0; i < warmupCount; i++ {
		res, err := op(w[i])
		if err != nil {
			return LatencyReport{}, errors.WithMessagef(err, "warmup query %d (%s)", i, w[i])
		}
		checksum += res
	}
	log.Printf("Warmup complete: Checksum = %d", checksum)

	stats := query.NewStatGroup()
	var total int64
	for i, q := range w {
		start := time.Now()
		res, err := op(q)
		took := time.Since(start).Nanoseconds()
		if err != nil {
			return LatencyReport{}, errors.WithMessagef(err, "query %d (%s)", i, q)
		}
		if err := sink.WriteRecord(res, took); err != nil {
			return LatencyReport{}, err
		}
		stats.Push(took, res)
		total += took
	}

	return LatencyReport{
		Queries:    len(w),
		Checksum:   checksum,
		TotalNanos: total,
		MeanNanos:  float64(total) / float64(len(w)),
		SumResults: stats.SumResults(),
		Quantiles:  stats.QuantileMap(),
		ResultFile: sink.Path(),
		Stats:      stats,
	}, nil
}
