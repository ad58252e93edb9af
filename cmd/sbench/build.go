package main

import (
	"log"
	"os"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"

	"github.com/succinctbench/sbench/backend"
	"github.com/succinctbench/sbench/errors"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <text-file> <index-file>",
		Short: "Build the suffix-array index of a text file",
		Args:  cobra.ExactArgs(2),
		RunE:  runBuild,
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	textPath, indexPath := args[0], args[1]
	text, err := os.ReadFile(textPath)
	if err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot read "+textPath)
	}

	start := time.Now()
	idx, err := backend.Build(text)
	if err != nil {
		return err
	}
	if err := os.WriteFile(indexPath, idx, 0644); err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot write "+indexPath)
	}
	log.Printf("Indexed %s (%s) into %s (%s) in %v",
		textPath, bytefmt.ByteSize(uint64(len(text))),
		indexPath, bytefmt.ByteSize(uint64(len(idx))),
		time.Since(start).Round(time.Millisecond))
	return nil
}
