// bitpack packs, unpacks and inspects bit-packed packet images.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/packbits/bitcursor/codec"
	"github.com/packbits/bitcursor/config"
)

var (
	cfg    = config.DefaultConfig()
	logger *zap.Logger

	cfgFile    string
	schemaFile string
	outputDir  string
	workers    int
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "bitpack",
	Short:         "Packs, unpacks and inspects bit-packed packet images",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(); err != nil {
			return err
		}
		return loadConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file path")
	flags.StringVar(&schemaFile, "schema", config.DefaultSchemaFile, "schema file describing the packet fields")
	flags.StringVar(&outputDir, "output-dir", config.DefaultOutputDir, "directory for packed images")
	flags.IntVar(&workers, "workers", config.DefaultWorkers, "number of concurrent pack workers")
	flags.StringVar(&logLevel, "log-level", zapcore.InfoLevel.String(), "log level (debug, info, warn, error)")

	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(inspectCmd)
}

func setupLogger() error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid `log-level`: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = "console"
	logger, err = zapCfg.Build()
	return err
}

// loadConfig reads the config file, then lets explicitly set CLI flags
// win over it.
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "schema":
			cfg.SchemaFile = schemaFile
		case "output-dir":
			cfg.OutputDir = outputDir
		case "workers":
			cfg.Workers = workers
		}
	})

	return cfg.Validate()
}

// loadSchema reads the packet schema: a config file with a `fields`
// list of {name, bits} entries.
func loadSchema(path string) (*codec.Schema, error) {
	vip := viper.New()
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var fields []codec.Field
	if err := vip.UnmarshalKey("fields", &fields); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	return codec.NewSchema(fields)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bitpack: %v\n", err)
		os.Exit(1)
	}
}
