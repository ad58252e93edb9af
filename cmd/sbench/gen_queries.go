package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/query"
)

func newGenQueriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-queries <data-file> <out-file>",
		Short: "Sample a pattern file from a dataset",
		Long: `Draw random substrings of the indexed text and write them one per line,
ready to be used with run --queries.`,
		Args: cobra.ExactArgs(2),
		RunE: runGenQueries,
	}
	f := cmd.Flags()
	f.Int("count", 1000, "Number of patterns")
	f.Int("length", 8, "Length of each pattern")
	f.Int64("seed", 0, "PRNG seed, 0 = current time")
	f.Bool("raw", false, "Treat data-file as plain text instead of an index")
	return cmd
}

func runGenQueries(cmd *cobra.Command, args []string) error {
	dataPath, outPath := args[0], args[1]
	f := cmd.Flags()
	count, _ := f.GetInt("count")
	length, _ := f.GetInt("length")
	seed, _ := f.GetInt64("seed")
	raw, _ := f.GetBool("raw")

	var text []byte
	if raw {
		data, err := os.ReadFile(dataPath)
		if err != nil {
			return errors.WrapCode(err, errors.ResourceError, "cannot read "+dataPath)
		}
		text = data
	} else {
		idx, err := backend.OpenMemory(dataPath)
		if err != nil {
			return err
		}
		text = idx.Text()
	}

	patterns, err := query.SamplePatterns(query.NewRand(seed), text, count, length)
	if err != nil {
		return err
	}

	file, err := os.Create(outPath)
	if err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot create "+outPath)
	}
	defer file.Close()
	if err := query.WritePatterns(file, patterns); err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot write "+outPath)
	}
	if err := file.Close(); err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot close "+outPath)
	}
	log.Printf("Wrote %d patterns of length %d to %s", len(patterns), length, outPath)
	return nil
}
