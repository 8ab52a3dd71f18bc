package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qri-io/zarrcore"
)

func newLsCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List the direct children of a group",
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
			members, err := zarr.ListMembers(store, path)
			if err != nil {
				return err
			}
			for _, m := range members {
				kind := "group"
				if m.IsArray {
					kind = "array"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", kind, m.Name)
			}
			return nil
		},
	}
}
