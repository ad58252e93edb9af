package load

import (
	"fmt"
	"time"

	"code.cloudfoundry.org/bytefmt"
)

// StageResult describes one Stage call.
type StageResult struct {
	Key      string        `json:"Key"`
	Skipped  bool          `json:"Skipped"`
	BytesIn  uint64        `json:"BytesIn"`
	BytesOut uint64        `json:"BytesOut"`
	Took     time.Duration `json:"TookNanos"`
}

// Ratio returns the compression ratio achieved, 1 for uncompressed keys.
func (r StageResult) Ratio() float64 {
	if r.BytesOut == 0 {
		return 0
	}
	return float64(r.BytesIn) / float64(r.BytesOut)
}

// ByteRate returns the input bytes processed per second.
func (r StageResult) ByteRate() float64 {
	if r.Took <= 0 {
		return 0
	}
	return float64(r.BytesIn) / r.Took.Seconds()
}

func (r StageResult) String() string {
	if r.Skipped {
		return fmt.Sprintf("%s (skipped)", r.Key)
	}
	return fmt.Sprintf("%s: %s in, %s out (ratio %.2f) in %v (%s/sec)",
		r.Key,
		bytefmt.ByteSize(r.BytesIn),
		bytefmt.ByteSize(r.BytesOut),
		r.Ratio(),
		r.Took.Round(time.Millisecond),
		bytefmt.ByteSize(uint64(r.ByteRate())))
}
