package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qri-io/zarrcore"
)

func newGroupCmd(cfg *cliConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}
	cmd.AddCommand(newGroupCreateCmd(cfg))
	return cmd
}

func newGroupCreateCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "create <path>",
		Short: "Create a group, and any missing ancestor groups",
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
			if _, err := zarr.CreateGroup(store, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %q\n", path)
			return nil
		},
	}
}
