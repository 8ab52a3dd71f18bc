package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qri-io/zarrcore"
)

func newAttrsCmd(cfg *cliConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attrs",
		Short: "Get or set user attributes on a node",
	}
	cmd.AddCommand(newAttrsGetCmd(cfg), newAttrsSetCmd(cfg))
	return cmd
}

func newAttrsGetCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the attributes document for a node",
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
			attrs, err := zarr.GetAttrs(store, path)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(attrs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newAttrsSetCmd(cfg *cliConfig) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set <path>",
		Short: "Replace the attributes document for a node",
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

			var raw []byte
			if fromFile == "-" {
				raw, err = readAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(fromFile)
			}
			if err != nil {
				return err
			}

			var attrs zarr.Attributes
			if err := json.Unmarshal(raw, &attrs); err != nil {
				return fmt.Errorf("decoding attributes JSON: %w", err)
			}
			if err := zarr.SetAttrs(store, path, attrs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set attrs on %q\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromFile, "from", "-", `file to read JSON attributes from, or "-" for stdin`)
	return cmd
}
