// Package config holds the bitpack tool configuration: where schemas
// and packed images live and how the pack pipeline is sized.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	MaxPacketBytes = 1 << 16
	MinPacketBytes = 1

	MaxWorkers = 256
	MinWorkers = 1
)

const (
	DefaultConfigFileName = "bitpack.toml"
	DefaultSchemaFileName = "schema.yaml"
	DefaultOutputDirName  = "packed"

	DefaultMaxPacketBytes = 1 << 12
	DefaultWorkers        = 4
)

var (
	DefaultHomeDir    = filepath.Join(userHomeDir(), "bitpack")
	DefaultSchemaFile = filepath.Join(DefaultHomeDir, DefaultSchemaFileName)
	DefaultOutputDir  = filepath.Join(DefaultHomeDir, DefaultOutputDirName)
)

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

type Config struct {
	SchemaFile     string `mapstructure:"schema"`
	OutputDir      string `mapstructure:"output-dir"`
	MaxPacketBytes uint   `mapstructure:"max-packet-bytes"`
	Workers        int    `mapstructure:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		SchemaFile:     DefaultSchemaFile,
		OutputDir:      DefaultOutputDir,
		MaxPacketBytes: DefaultMaxPacketBytes,
		Workers:        DefaultWorkers,
	}
}

func (cfg *Config) Validate() error {
	if cfg.SchemaFile == "" {
		return fmt.Errorf("invalid `SchemaFile`; expected: non-empty path")
	}

	if cfg.OutputDir == "" {
		return fmt.Errorf("invalid `OutputDir`; expected: non-empty path")
	}

	if cfg.MaxPacketBytes > MaxPacketBytes {
		return fmt.Errorf("invalid `MaxPacketBytes`; expected: <= %d, given: %d", MaxPacketBytes, cfg.MaxPacketBytes)
	}

	if cfg.MaxPacketBytes < MinPacketBytes {
		return fmt.Errorf("invalid `MaxPacketBytes`; expected: >= %d, given: %d", MinPacketBytes, cfg.MaxPacketBytes)
	}

	if cfg.Workers > MaxWorkers {
		return fmt.Errorf("invalid `Workers`; expected: <= %d, given: %d", MaxWorkers, cfg.Workers)
	}

	if cfg.Workers < MinWorkers {
		return fmt.Errorf("invalid `Workers`; expected: >= %d, given: %d", MinWorkers, cfg.Workers)
	}

	return nil
}

// Load reads a config file into a Config, starting from the defaults.
// A missing file at the default location is not an error; a file named
// explicitly must exist.
func Load(fileLocation string) (*Config, error) {
	vip := viper.New()

	explicit := fileLocation != ""
	if !explicit {
		fileLocation = filepath.Join(DefaultHomeDir, DefaultConfigFileName)
	}

	vip.SetConfigFile(fileLocation)
	err := vip.ReadInConfig()
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
