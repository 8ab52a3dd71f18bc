package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qri-io/zarrcore"
)

func newArrayCmd(cfg *cliConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "array",
		Short: "Manage arrays",
	}
	cmd.AddCommand(newArrayCreateCmd(cfg))
	return cmd
}

func newArrayCreateCmd(cfg *cliConfig) *cobra.Command {
	var (
		shapeFlag  string
		chunkFlag  string
		dtypeFlag  string
		compFlag   string
		orderFlag  string
		fillFlag   string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create an array, and any missing ancestor groups",
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

			shape, err := parseIntList(shapeFlag)
			if err != nil {
				return fmt.Errorf("--shape: %w", err)
			}
			chunks, err := parseIntList(chunkFlag)
			if err != nil {
				return fmt.Errorf("--chunks: %w", err)
			}
			dtype, err := zarr.ParseDtype(dtypeFlag)
			if err != nil {
				return fmt.Errorf("--dtype: %w", err)
			}
			order := zarr.Order(orderFlag)

			var fill zarr.FillValue
			if fillFlag == "" {
				fill = zarr.Undefined
			} else {
				fv, err := zarr.UnmarshalFillValue([]byte(fillFlag), dtype)
				if err != nil {
					return fmt.Errorf("--fill-value: %w", err)
				}
				fill = fv
			}

			meta := zarr.ArrayMeta{
				Shape:       shape,
				Chunks:      chunks,
				Dtype:       dtype,
				Compression: compFlag,
				FillValue:   fill,
				Order:       order,
			}

			if _, err := zarr.CreateArray(store, path, meta, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created array %q\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&shapeFlag, "shape", "", "comma-separated dimension sizes, e.g. 1000,1000")
	cmd.Flags().StringVar(&chunkFlag, "chunks", "", "comma-separated chunk sizes, e.g. 100,100")
	cmd.Flags().StringVar(&dtypeFlag, "dtype", "<f8", "NumPy-style dtype string, e.g. <f8")
	cmd.Flags().StringVar(&compFlag, "compression", zarr.CompressionNone, "codec name, or NONE")
	cmd.Flags().StringVar(&orderFlag, "order", string(zarr.RowMajor), `"C" or "F"`)
	cmd.Flags().StringVar(&fillFlag, "fill-value", "", "JSON-encoded fill value, or empty for undefined")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "delete any existing node at path first")

	return cmd
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
