package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spacemeshos/sha256-simd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/packbits/bitcursor/codec"
	"github.com/packbits/bitcursor/persistence"
)

var packCmd = &cobra.Command{
	Use:   "pack [values-file ...]",
	Short: "Packs JSON value files into bit-packed images",
	Long: `Packs one or more JSON value files into bit-packed images.

Each values file holds a JSON object mapping field names to unsigned
values; fields and widths come from the schema file. The packed image
is written to the output directory under the input's base name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

func runPack(cmd *cobra.Command, args []string) error {
	schema, err := loadSchema(cfg.SchemaFile)
	if err != nil {
		return err
	}
	if schema.ByteLen() > cfg.MaxPacketBytes {
		return fmt.Errorf("schema packs to %d bytes; `MaxPacketBytes` is %d", schema.ByteLen(), cfg.MaxPacketBytes)
	}

	var eg errgroup.Group
	eg.SetLimit(cfg.Workers)
	for _, path := range args {
		path := path
		eg.Go(func() error {
			return packOne(schema, path)
		})
	}
	return eg.Wait()
}

func packOne(schema *codec.Schema, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var values map[string]uint32
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("failed to parse values file %v: %w", path, err)
	}

	data, err := schema.Encode(values)
	if err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}

	out := outputPath(path)
	img := &persistence.Image{BitLen: schema.BitLen(), Payload: data}
	if err := persistence.Save(out, img, persistence.WithLogger(logger)); err != nil {
		return err
	}

	digest := sha256.Sum256(data)
	logger.Info("packed image",
		zap.String("input", path),
		zap.String("output", out),
		zap.String("size", bytefmt.ByteSize(uint64(len(data)))),
		zap.String("digest", hex.EncodeToString(digest[:])),
	)
	return nil
}

func outputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cfg.OutputDir, base+".pbit")
}
