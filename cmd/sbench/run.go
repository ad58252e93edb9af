package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/benchmark_runner"
	"github.com/succinctbench/sbench/errors"
)

func newRunCmd() *cobra.Command {
	defaults := benchmark_runner.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "run [selector]",
		Short: "Run benchmarks",
		Long: `Run the benchmarks matching selector: "all" (the default), a class
(buffer, file, raw) or class.method, e.g. file.count-thr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
	f := cmd.Flags()
	f.StringP("data", "d", getEnvStr("SBENCH_DATA", ""), "Index to benchmark: a local path, redis://host:port/key or s3://bucket/key (required)")
	f.String("raw", getEnvStr("SBENCH_RAW", ""), "Dataset for the raw class, same forms as --data. Defaults to --data")
	f.StringP("results", "r", getEnvStr("SBENCH_RESULTS", defaults.ResultsPath), "Prefix of the per-benchmark result files")
	f.StringP("queries", "q", getEnvStr("SBENCH_QUERIES", ""), "Pattern file, one query per line (required for count and search benchmarks)")
	f.StringP("storage-mode", "s", getEnvStr("SBENCH_STORAGE_MODE", string(defaults.Mode)), "MEMORY_ONLY or MEMORY_MAPPED")
	f.IntP("threads", "n", getEnvInt("SBENCH_THREADS", defaults.Workers), "Number of workers for throughput benchmarks")
	f.IntP("extract-len", "e", getEnvInt("SBENCH_EXTRACT_LEN", int(defaults.ExtractLen)), "Length of extract queries")
	f.Int("num-queries", getEnvInt("SBENCH_NUM_QUERIES", 0), "Workload size, 0 = per-class default")
	f.Int("warmup-queries", getEnvInt("SBENCH_WARMUP_QUERIES", defaults.WarmupQueries), "Untimed warmup queries of latency benchmarks, -1 = per-class default")
	f.Int64("seed", int64(getEnvInt("SBENCH_SEED", 0)), "Workload PRNG seed, 0 = current time")
	f.Duration("warmup", getEnvDuration("SBENCH_WARMUP", defaults.Warmup), "Warmup phase of throughput benchmarks")
	f.Duration("measure", getEnvDuration("SBENCH_MEASURE", defaults.Measure), "Measure phase of throughput benchmarks")
	f.Duration("cooldown", getEnvDuration("SBENCH_COOLDOWN", defaults.Cooldown), "Cooldown phase of throughput benchmarks")
	f.Uint64("max-rps", uint64(getEnvInt("SBENCH_MAX_RPS", 0)), "enable limiting the rate of queries per second, 0 = no limit")
	f.String("json-out-file", getEnvStr("SBENCH_JSON_OUT_FILE", ""), "Name of json output file to output benchmark results. If not set, will not print to json.")
	f.String("metadata-string", getEnvStr("SBENCH_METADATA", ""), "Metadata string to add to json-out-file. If -json-out-file is not set, will not use this option.")
	addStorageFlags(cmd)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	selector := "all"
	if len(args) == 1 {
		selector = args[0]
	}
	f := cmd.Flags()

	cfg := benchmark_runner.DefaultConfig()
	cfg.DataPath, _ = f.GetString("data")
	cfg.RawPath, _ = f.GetString("raw")
	cfg.ResultsPath, _ = f.GetString("results")
	cfg.QueriesPath, _ = f.GetString("queries")
	modeStr, _ := f.GetString("storage-mode")
	cfg.Workers, _ = f.GetInt("threads")
	extractLen, _ := f.GetInt("extract-len")
	cfg.Queries, _ = f.GetInt("num-queries")
	cfg.WarmupQueries, _ = f.GetInt("warmup-queries")
	cfg.Seed, _ = f.GetInt64("seed")
	cfg.Warmup, _ = f.GetDuration("warmup")
	cfg.Measure, _ = f.GetDuration("measure")
	cfg.Cooldown, _ = f.GetDuration("cooldown")
	cfg.MaxRPS, _ = f.GetUint64("max-rps")
	cfg.JsonOutFile, _ = f.GetString("json-out-file")
	cfg.Metadata, _ = f.GetString("metadata-string")
	cfg.Storage = storageOptions(cmd)

	mode, err := backend.ParseMode(modeStr)
	if err != nil {
		return err
	}
	cfg.Mode = mode
	if extractLen <= 0 || extractLen > 1<<31-1 {
		return errors.Newf(errors.InvalidArgument, "extract length must be in (0, %d], got %d", 1<<31-1, extractLen)
	}
	cfg.ExtractLen = int32(extractLen)

	log.Println(versionString())
	log.Printf("Benching on %s, selector %q", cfg.DataPath, selector)
	if _, err := benchmark_runner.NewBenchmarkRunner(cfg).Run(cmd.Context(), selector); err != nil {
		return errors.WithMessage(err, "probe failed")
	}
	return nil
}
