package main

import (
	"fmt"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/packbits/bitcursor/persistence"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [image-file]",
	Short: "Prints the field layout and values of a bit-packed image",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	schema, err := loadSchema(cfg.SchemaFile)
	if err != nil {
		return err
	}

	img, err := persistence.Load(args[0], persistence.WithLogger(logger))
	if err != nil {
		return err
	}

	values, err := schema.Decode(img.Payload)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"field", "bits", "offset", "value"})
	offsets := schema.Offsets()
	for i, f := range schema.Fields() {
		table.Append([]string{
			f.Name,
			strconv.FormatUint(uint64(f.Bits), 10),
			strconv.FormatUint(uint64(offsets[i]), 10),
			strconv.FormatUint(uint64(values[f.Name]), 10),
		})
	}
	table.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "%d fields, %d bits used of %s payload\n",
		schema.NumFields(), img.BitLen, bytefmt.ByteSize(uint64(len(img.Payload))))
	return nil
}
