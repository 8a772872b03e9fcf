package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// fileConfig holds defaults read from --config. Pointer fields distinguish
// "unset" from zero values; explicit flags always win.
type fileConfig struct {
	PixelSize   *int     `toml:"pixel_size" yaml:"pixel_size"`
	Periodic    *bool    `toml:"periodic" yaml:"periodic"`
	Phases      *int     `toml:"phases" yaml:"phases"`
	Path        *string  `toml:"path" yaml:"path"`
	Strategy    *string  `toml:"strategy" yaml:"strategy"`
	Workers     *int     `toml:"workers" yaml:"workers"`
	Formats     []string `toml:"formats" yaml:"formats"`
	MetricsFile *string  `toml:"metrics_file" yaml:"metrics_file"`

	Cache struct {
		Disabled *bool   `toml:"disabled" yaml:"disabled"`
		Redis    *string `toml:"redis" yaml:"redis"`
		Prefix   *string `toml:"prefix" yaml:"prefix"`
	} `toml:"cache" yaml:"cache"`
}

// loadConfig decodes a TOML or YAML file, chosen by extension.
func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, configError(path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, configError(path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, configError(path, err)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"config %s: unsupported extension (use .toml, .yaml or .yml)", path)
	}
	return &cfg, nil
}

func configError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
	}
	return errors.Wrap(errors.ErrCodeMalformedInput, err, "config %s", path)
}

// apply copies config values into f for every flag the user did not set.
func (cfg *fileConfig) apply(cmd *cobra.Command, f *buildFlags) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if cfg.PixelSize != nil && !changed("pixelsize") {
		f.pixelSize = *cfg.PixelSize
	}
	if cfg.Periodic != nil && !changed("periodic") {
		f.periodic = *cfg.Periodic
	}
	if cfg.Phases != nil && !changed("phases") {
		f.phases = *cfg.Phases
	}
	if cfg.Path != nil && !changed("path") {
		f.path = *cfg.Path
	}
	if cfg.Strategy != nil && !changed("strategy") {
		f.strategy = *cfg.Strategy
	}
	if cfg.Workers != nil && !changed("workers") {
		f.workers = *cfg.Workers
	}
	if len(cfg.Formats) > 0 && !changed("format") {
		f.formats = strings.Join(cfg.Formats, ",")
	}
	if cfg.MetricsFile != nil && !changed("metrics-file") {
		f.metricsFile = *cfg.MetricsFile
	}
	if cfg.Cache.Disabled != nil && !changed("no-cache") {
		f.cache.noCache = *cfg.Cache.Disabled
	}
	if cfg.Cache.Redis != nil && !changed("cache-redis") {
		f.cache.redisURL = *cfg.Cache.Redis
	}
	if cfg.Cache.Prefix != nil && !changed("cache-prefix") {
		f.cache.prefix = *cfg.Cache.Prefix
	}
}
