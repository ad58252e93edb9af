package benchmark_runner

// Stat holds the private counters of one throughput worker. It is only read
// after every worker has finished.
type Stat struct {
	Worker int `json:"Worker"`
	Start  int `json:"Start"`
	Len    int `json:"Len"`

	WarmupQueries   int64 `json:"WarmupQueries"`
	MeasureQueries  int64 `json:"MeasureQueries"`
	CooldownQueries int64 `json:"CooldownQueries"`
	// SumResults is the sum of the result summaries of measured queries.
	SumResults int64 `json:"SumResults"`
}

func (s *Stat) add(p Phase, result int64) {
	switch p {
	case Warmup:
		s.WarmupQueries++
	case Measure:
		s.MeasureQueries++
		s.SumResults += result
	case Cooldown:
		s.CooldownQueries++
	}
}
