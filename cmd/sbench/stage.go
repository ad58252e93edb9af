package main

import (
	"github.com/spf13/cobra"

	"github.com/succinctbench/sbench/errors"
	"github.com/succinctbench/sbench/load"
	"github.com/succinctbench/sbench/storage"
)

func newStageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage <index-file> <remote-uri>",
		Short: "Copy an index into Redis, S3 or a file store",
		Long: `Copy a local index to redis://host:port/key, s3://bucket/key or
file:///dir/key, unless the object already exists. Keys ending in .zst or .sz
are stored zstd or snappy compressed.`,
		Args: cobra.ExactArgs(2),
		RunE: runStage,
	}
	cmd.Flags().Bool("overwrite", false, "Replace an existing object")
	addStorageFlags(cmd)
	return cmd
}

func runStage(cmd *cobra.Command, args []string) error {
	localPath, uri := args[0], args[1]
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	loc, err := storage.ParseLocation(uri)
	if err != nil {
		return errors.WrapCode(err, errors.InvalidArgument, "invalid stage target")
	}
	if !loc.IsRemote() {
		return errors.Newf(errors.InvalidArgument, "stage target %s is not a remote location", uri)
	}
	store, err := storage.Open(cmd.Context(), loc, storageOptions(cmd))
	if err != nil {
		return errors.WrapCode(err, errors.ResourceError, "cannot open object store")
	}
	defer store.Close()

	_, err = load.NewStager(store).Stage(cmd.Context(), localPath, loc.Key, overwrite)
	return err
}
