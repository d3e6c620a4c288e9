// Package config loads vecbase's runtime configuration from a YAML file
// and environment variables on top of DefaultConfig's values:
// environment variables override the file, and the file overrides the
// defaults.
// Grounded on the teacher's own config.go: same viper-based load/default/
// write-default-file shape, generalized from vecgrep's embedding/indexing
// settings to vecbase's snapshot/index settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultDataDir is a directory name for vecbase's own config file.
	// Load and the serve command do not use it: the config directory is
	// whatever the caller passes, "." unless --config says otherwise.
	DefaultDataDir = ".vecbase"
	// DefaultConfigFile is the default config filename.
	DefaultConfigFile = "config.yaml"
	// EnvPrefix is the prefix every environment-variable override uses.
	EnvPrefix = "VECBASE"
)

// Config holds every recognized runtime option.
type Config struct {
	SnapshotPath            string `mapstructure:"snapshot_path" yaml:"snapshot_path,omitempty"`
	SnapshotIntervalSeconds int    `mapstructure:"snapshot_interval_seconds" yaml:"snapshot_interval_seconds,omitempty"`
	SampleEmbeddingsPath    string `mapstructure:"sample_embeddings_path" yaml:"sample_embeddings_path,omitempty"`
	DefaultAlgorithm        string `mapstructure:"default_algorithm" yaml:"default_algorithm,omitempty"`

	LSHTables int   `mapstructure:"lsh_tables" yaml:"lsh_tables,omitempty"`
	LSHPlanes int   `mapstructure:"lsh_planes" yaml:"lsh_planes,omitempty"`
	LSHSeed   int64 `mapstructure:"lsh_seed" yaml:"lsh_seed,omitempty"`

	Server ServerConfig `mapstructure:"server" yaml:"server,omitempty"`
}

// ServerConfig holds HTTP server bind settings.
type ServerConfig struct {
	Host       string `mapstructure:"host" yaml:"host,omitempty"`
	Port       int    `mapstructure:"port" yaml:"port,omitempty"`
	MCPEnabled bool   `mapstructure:"mcp_enabled" yaml:"mcp_enabled,omitempty"`
}

// DefaultConfig returns the configuration used when no file or
// environment override is present, matching every default named in the
// environment/configuration surface.
func DefaultConfig() *Config {
	return &Config{
		SnapshotPath:            "./vectordb.snapshot",
		SnapshotIntervalSeconds: 30,
		DefaultAlgorithm:        "exact",
		LSHTables:               4,
		LSHPlanes:               8,
		LSHSeed:                 42,
		Server: ServerConfig{
			Host:       "localhost",
			Port:       8080,
			MCPEnabled: false,
		},
	}
}

// Load reads configuration from configDir/config.yaml if present, then
// applies VECBASE_*-prefixed environment overrides, falling back to
// DefaultConfig's values for anything unset.
func Load(configDir string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	_ = v.BindEnv("snapshot_path", "VECBASE_SNAPSHOT_PATH")
	_ = v.BindEnv("snapshot_interval_seconds", "VECBASE_SNAPSHOT_INTERVAL_SECONDS")
	_ = v.BindEnv("sample_embeddings_path", "VECBASE_SAMPLE_EMBEDDINGS_PATH")
	_ = v.BindEnv("default_algorithm", "VECBASE_DEFAULT_ALGORITHM")
	_ = v.BindEnv("lsh_tables", "VECBASE_LSH_TABLES")
	_ = v.BindEnv("lsh_planes", "VECBASE_LSH_PLANES")
	_ = v.BindEnv("lsh_seed", "VECBASE_LSH_SEED")
	_ = v.BindEnv("server.host", "VECBASE_HOST")
	_ = v.BindEnv("server.port", "VECBASE_PORT")
	_ = v.BindEnv("server.mcp_enabled", "VECBASE_MCP_ENABLED")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.DefaultAlgorithm != "exact" && cfg.DefaultAlgorithm != "lsh" {
		return nil, fmt.Errorf("invalid default_algorithm %q: must be \"exact\" or \"lsh\"", cfg.DefaultAlgorithm)
	}
	if cfg.SnapshotIntervalSeconds < 1 {
		return nil, fmt.Errorf("snapshot_interval_seconds must be >= 1, got %d", cfg.SnapshotIntervalSeconds)
	}

	return cfg, nil
}

// WriteDefaultConfig writes the default config file into configDir,
// unless one is already there.
func WriteDefaultConfig(configDir string) error {
	configPath := filepath.Join(configDir, DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	cfg := DefaultConfig()
	v := viper.New()
	v.Set("snapshot_path", cfg.SnapshotPath)
	v.Set("snapshot_interval_seconds", cfg.SnapshotIntervalSeconds)
	v.Set("default_algorithm", cfg.DefaultAlgorithm)
	v.Set("lsh_tables", cfg.LSHTables)
	v.Set("lsh_planes", cfg.LSHPlanes)
	v.Set("lsh_seed", cfg.LSHSeed)
	v.Set("server.host", cfg.Server.Host)
	v.Set("server.port", cfg.Server.Port)
	v.Set("server.mcp_enabled", cfg.Server.MCPEnabled)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(configPath)
}
