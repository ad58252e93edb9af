package benchmark_runner

import (
	"time"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/storage"
)

const (
	DefaultResultsPath  = "results/res"
	DefaultExtractLen   = 1000
	DefaultWarmupTime   = 5 * time.Second
	DefaultMeasureTime  = 10 * time.Second
	DefaultCooldownTime = 5 * time.Second
)

// Config holds everything a run needs. It is filled in by the command line
// and never changed once the run starts.
type Config struct {
	// DataPath is the index location: a local path, redis://host:port/key or
	// s3://bucket/key.
	DataPath string
	// RawPath is the dataset used by the raw class. Defaults to DataPath.
	RawPath     string
	ResultsPath string
	QueriesPath string
	Mode        backend.Mode
	Storage     storage.Options

	Workers    int
	ExtractLen int32
	// Queries overrides the per-class workload size when positive.
	Queries int
	// WarmupQueries overrides the per-class latency warmup count when not
	// negative.
	WarmupQueries int
	Seed          int64

	Warmup   time.Duration
	Measure  time.Duration
	Cooldown time.Duration
	MaxRPS   uint64

	JsonOutFile string
	Metadata    string
}

// DefaultConfig returns a Config with every optional field set.
func DefaultConfig() Config {
	return Config{
		ResultsPath:   DefaultResultsPath,
		Mode:          backend.MemoryOnly,
		Storage:       storage.DefaultOptions(),
		Workers:       1,
		ExtractLen:    DefaultExtractLen,
		WarmupQueries: -1,
		Warmup:        DefaultWarmupTime,
		Measure:       DefaultMeasureTime,
		Cooldown:      DefaultCooldownTime,
	}
}

// Validate rejects configurations no benchmark could run with.
func (c Config) Validate() error {
	switch {
	case c.DataPath == "":
		return errors.New(errors.InvalidArgument, "data path must be specified")
	case c.ResultsPath == "":
		return errors.New(errors.InvalidArgument, "results path must be specified")
	case c.Workers <= 0:
		return errors.Newf(errors.InvalidArgument, "number of threads must be positive, got %d", c.Workers)
	case c.ExtractLen <= 0:
		return errors.Newf(errors.InvalidArgument, "extract length must be positive, got %d", c.ExtractLen)
	case c.Queries < 0:
		return errors.Newf(errors.InvalidArgument, "query count must not be negative, got %d", c.Queries)
	}
	return c.throughputConfig().validate()
}

func (c Config) throughputConfig() ThroughputConfig {
	return ThroughputConfig{
		Workers:  c.Workers,
		Warmup:   c.Warmup,
		Measure:  c.Measure,
		Cooldown: c.Cooldown,
		MaxRPS:   c.MaxRPS,
	}
}

func (c Config) rawPath() string {
	if c.RawPath != "" {
		return c.RawPath
	}
	return c.DataPath
}

// parametersMap lists the configuration recorded in the JSON result.
func (c Config) parametersMap() map[string]interface{} {
	return map[string]interface{}{
		"DataPath":      c.DataPath,
		"RawPath":       c.rawPath(),
		"QueriesPath":   c.QueriesPath,
		"StorageMode":   string(c.Mode),
		"Threads":       c.Workers,
		"ExtractLen":    c.ExtractLen,
		"Queries":       c.Queries,
		"WarmupQueries": c.WarmupQueries,
		"Seed":          c.Seed,
		"WarmupSecs":    c.Warmup.Seconds(),
		"MeasureSecs":   c.Measure.Seconds(),
		"CooldownSecs":  c.Cooldown.Seconds(),
		"MaxRps":        c.MaxRPS,
	}
}
