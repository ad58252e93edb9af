package benchmark_runner

const CurrentResultFormatVersion = "0.1"

// BenchmarkResult is the JSON record of one benchmark.
type BenchmarkResult struct {
	Name       string `json:"Name"`
	Throughput bool   `json:"Throughput"`
	Queries    int    `json:"Queries"`

	// Latency benchmarks.
	ResultFile    string             `json:"ResultFile,omitempty"`
	Checksum      int64              `json:"Checksum,omitempty"`
	MeanLatencyNs float64            `json:"MeanLatencyNs,omitempty"`
	QuantilesNs   map[string]float64 `json:"QuantilesNs,omitempty"`

	// Throughput benchmarks.
	Workers                 int     `json:"Workers,omitempty"`
	PerWorker               []Stat  `json:"PerWorker,omitempty"`
	MeasuredQueries         int64   `json:"MeasuredQueries,omitempty"`
	QPS                     float64 `json:"QPS,omitempty"`
	ResultRate              float64 `json:"ResultRate,omitempty"`
	ResultRateHumanReadable string  `json:"ResultRateHumanReadable,omitempty"`

	DurationMillis int64 `json:"DurationMillis"`
}

// TestResult is the JSON summary written to --json-out-file.
type TestResult struct {
	RunID               string `json:"RunID"`
	Metadata            string `json:"Metadata"`
	ResultFormatVersion string `json:"ResultFormatVersion"`
	Selector            string `json:"Selector"`
	DataSize            int64  `json:"DataSize"`
	DataSizeHuman       string `json:"DataSizeHumanReadable"`

	Configs map[string]interface{} `json:"Configs"`

	StartTime      int64 `json:"StartTime"`
	EndTime        int64 `json:"EndTime"`
	DurationMillis int64 `json:"DurationMillis"`

	Results []BenchmarkResult `json:"Results"`
}
