package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultName is the base name of the configuration file.
	DefaultName = "lcovkit"
	// EnvPrefix prefixes environment overrides, e.g. LCOVKIT_LOG_LEVEL.
	EnvPrefix = "LCOVKIT"
)

// Config is the lcovkit configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Merge  MergeConfig  `mapstructure:"merge"`
	Filter FilterConfig `mapstructure:"filter"`
	Stats  StatsConfig  `mapstructure:"stats"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Color bool   `mapstructure:"color"`
}

// MergeConfig holds defaults for merging tracefiles.
type MergeConfig struct {
	// Lossy resolves conflicting start lines and checksums instead of failing.
	Lossy bool `mapstructure:"lossy"`
	// Jobs bounds how many input files are decoded at once.
	Jobs int `mapstructure:"jobs"`
}

// FilterConfig holds defaults for diff based filtering.
type FilterConfig struct {
	Strip int    `mapstructure:"strip"`
	Root  string `mapstructure:"root"`
}

// StatsConfig holds defaults for the stats command.
type StatsConfig struct {
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.color", false)
	v.SetDefault("merge.lossy", false)
	v.SetDefault("merge.jobs", 4)
	v.SetDefault("filter.strip", 0)
	v.SetDefault("filter.root", "")
	v.SetDefault("stats.format", "yaml")
}

func newViper(configName string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	return v
}

// read loads the configuration file found by v into result. With optional
// set, a config file that cannot be found leaves result at v's defaults.
func read(v *viper.Viper, result interface{}, optional bool) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !optional || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(result); err != nil {
		return fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	return nil
}

// LoadConfig builds the lcovkit configuration from defaults, an optional
// config file, an optional .env file and LCOVKIT_* environment variables,
// in increasing order of precedence. An empty path searches for
// lcovkit.yaml; a missing file is then not an error.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := newViper(DefaultName)
	if path != "" {
		v.SetConfigFile(path)
	}
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := read(v, &cfg, path == ""); err != nil {
		return nil, err
	}
	if cfg.Merge.Jobs < 1 {
		cfg.Merge.Jobs = 1
	}
	return &cfg, nil
}
