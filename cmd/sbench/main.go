// Command sbench benchmarks suffix-array index backends.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sbench",
		Short: "Latency and throughput benchmarks for suffix-array indexes",
		Long: `sbench measures the latency distribution and sustained throughput of
read-only suffix-array indexes, held in memory, memory-mapped, or fetched
from Redis or S3.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(versionString())
		},
	})
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newStageCmd())
	rootCmd.AddCommand(newGenQueriesCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("%s failed", versionString())
		os.Exit(1)
	}
}
