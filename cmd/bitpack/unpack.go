package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packbits/bitcursor/persistence"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack [image-file]",
	Short: "Unpacks a bit-packed image back into JSON values",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnpack,
}

func runUnpack(cmd *cobra.Command, args []string) error {
	schema, err := loadSchema(cfg.SchemaFile)
	if err != nil {
		return err
	}

	img, err := persistence.Load(args[0], persistence.WithLogger(logger))
	if err != nil {
		return err
	}
	if img.BitLen < schema.BitLen() {
		return fmt.Errorf("image holds %d bits; schema expects %d", img.BitLen, schema.BitLen())
	}

	values, err := schema.Decode(img.Payload)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
