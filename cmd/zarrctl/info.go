package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qri-io/zarrcore"
)

func newInfoCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Print the array metadata document for a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cfg.verbose)
			defer log.Sync()

			store, err := openStore(cfg.storeSpec, log)
			if err != nil {
				return err
			}
			path, err := zarr.NewPath(args[0])
			if err != nil {
				return err
			}
			arr, err := zarr.OpenArray(store, path)
			if err != nil {
				return err
			}
			raw, err := zarr.MarshalArrayMeta(arr.Meta())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}
