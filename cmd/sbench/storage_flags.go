package main

import (
	"github.com/spf13/cobra"

	"github.com/succinctbench/sbench/storage"
)

func addStorageFlags(cmd *cobra.Command) {
	defaults := storage.DefaultOptions()
	f := cmd.Flags()
	f.Int("redis-pool-size", getEnvInt("SBENCH_REDIS_POOL_SIZE", defaults.RedisPoolSize), "Connections in the redis pool")
	f.String("s3-region", getEnvStr("SBENCH_S3_REGION", defaults.S3.Region), "AWS region of the S3 bucket")
	f.String("s3-endpoint", getEnvStr("SBENCH_S3_ENDPOINT", ""), "Custom S3 endpoint (MinIO, LocalStack)")
	f.Bool("s3-path-style", getEnvBool("SBENCH_S3_PATH_STYLE", false), "Use path-style S3 addressing")
}

func storageOptions(cmd *cobra.Command) storage.Options {
	f := cmd.Flags()
	opts := storage.DefaultOptions()
	opts.RedisPoolSize, _ = f.GetInt("redis-pool-size")
	opts.S3.Region, _ = f.GetString("s3-region")
	opts.S3.Endpoint, _ = f.GetString("s3-endpoint")
	opts.S3.UsePathStyle, _ = f.GetBool("s3-path-style")
	return opts
}
