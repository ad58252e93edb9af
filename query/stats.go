package query

import (
	"fmt"
	"io"
	"sort"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// StatGroup collects streaming latency and response size statistics for one
// benchmark.
type StatGroup struct {
	count               int64
	sumResults          int64
	latencyHistogram    *hdrhistogram.Histogram
	resultSizeHistogram *hdrhistogram.Histogram
}

// NewStatGroup returns an empty StatGroup.
func NewStatGroup() *StatGroup {
	// Latencies are tracked from 1ns up to one hour with 3 significant
	// digits, giving a resolution of 1ns up to 1us and 1us (or better) up
	// to 1ms and so on.
	return &StatGroup{
		latencyHistogram:    hdrhistogram.New(1, 3600*1e9, 3),
		resultSizeHistogram: hdrhistogram.New(1, 1<<40, 3),
	}
}

// Push records one measured query. latencyNanos is the elapsed time and
// result the operation specific summary.
func (s *StatGroup) Push(latencyNanos int64, result int64) {
	_ = s.latencyHistogram.RecordValue(latencyNanos)
	if result >= 0 {
		_ = s.resultSizeHistogram.RecordValue(result)
	}
	s.sumResults += result
	s.count++
}

// Count returns the number of recorded queries.
func (s *StatGroup) Count() int64 {
	return s.count
}

// SumResults returns the sum of every recorded result summary.
func (s *StatGroup) SumResults() int64 {
	return s.sumResults
}

// QuantileMap returns the latency quantiles in nanoseconds keyed q0, q50,
// q95, q99, q999 and q100.
func (s *StatGroup) QuantileMap() map[string]float64 {
	return generateQuantileMap(s.latencyHistogram)
}

func generateQuantileMap(hist *hdrhistogram.Histogram) map[string]float64 {
	q0 := 0.0
	q50 := 0.0
	q95 := 0.0
	q99 := 0.0
	q999 := 0.0
	q100 := 0.0
	if hist.TotalCount() > 0 {
		q0 = float64(hist.ValueAtQuantile(0.0))
		q50 = float64(hist.ValueAtQuantile(50.0))
		q95 = float64(hist.ValueAtQuantile(95.0))
		q99 = float64(hist.ValueAtQuantile(99.0))
		q999 = float64(hist.ValueAtQuantile(99.90))
		q100 = float64(hist.ValueAtQuantile(100.0))
	}
	return map[string]float64{"q0": q0, "q50": q50, "q95": q95, "q99": q99, "q999": q999, "q100": q100}
}

// stringQueryLatencyStatistical describes the latency distribution in
// microseconds.
func (s *StatGroup) stringQueryLatencyStatistical() string {
	return fmt.Sprintf("+ Query execution latency (statistical histogram):\n\tmin: %10.2f us,  mean: %10.2f us, q25: %10.2f us, med(q50): %10.2f us, q75: %10.2f us, q99: %10.2f us, max: %10.2f us, stddev: %10.2f us, count: %d\n",
		float64(s.latencyHistogram.Min())/1e3,
		s.latencyHistogram.Mean()/1e3,
		float64(s.latencyHistogram.ValueAtQuantile(25.0))/1e3,
		float64(s.latencyHistogram.ValueAtQuantile(50.0))/1e3,
		float64(s.latencyHistogram.ValueAtQuantile(75.0))/1e3,
		float64(s.latencyHistogram.ValueAtQuantile(99.0))/1e3,
		float64(s.latencyHistogram.Max())/1e3,
		s.latencyHistogram.StdDev()/1e3,
		s.count)
}

// stringQueryResponseSizeStatistical describes the result summary
// distribution.
func (s *StatGroup) stringQueryResponseSizeStatistical() string {
	return fmt.Sprintf("+ Query result size (statistical histogram):\n\tmin(q0): %d, q25: %d, med(q50): %d, q75: %d, q99: %d, max(q100): %d, sum: %d\n",
		s.resultSizeHistogram.ValueAtQuantile(0),
		s.resultSizeHistogram.ValueAtQuantile(25.0),
		s.resultSizeHistogram.ValueAtQuantile(50.0),
		s.resultSizeHistogram.ValueAtQuantile(75.0),
		s.resultSizeHistogram.ValueAtQuantile(99.0),
		s.resultSizeHistogram.ValueAtQuantile(100.0),
		s.sumResults)
}

func (s *StatGroup) write(w io.Writer) error {
	if _, err := fmt.Fprint(w, s.stringQueryLatencyStatistical()); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, s.stringQueryResponseSizeStatistical())
	return err
}

// WriteStatGroupMap writes every StatGroup under its name, names sorted and
// padded to the same width.
func WriteStatGroupMap(w io.Writer, statGroups map[string]*StatGroup) error {
	names := make([]string, 0, len(statGroups))
	width := 0
	for name := range statGroups {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%-*s:\n", width, name); err != nil {
			return err
		}
		if err := statGroups[name].write(w); err != nil {
			return err
		}
	}
	return nil
}
