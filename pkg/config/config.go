package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order when no config file is given
var DefaultPaths = []string{"configs/go-index.yaml", "go-index.yaml"}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	ShardCount    int                 `yaml:"shard_count"`    // lock shards per index store
	StatsInterval time.Duration       `yaml:"stats_interval"` // 0 disables the stats reporter
	Indexes       map[string][]string `yaml:"indexes"`        // collection -> fields indexed on creation
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			ShardCount: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at configPath over the defaults. An empty path
// tries DefaultPaths and falls back to the defaults when none exists.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range DefaultPaths {
			data, err := os.ReadFile(p)
			if err == nil {
				return parse(cfg, data, p)
			}
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", configPath)
	}
	return parse(cfg, data, configPath)
}

func parse(cfg *Config, data []byte, path string) (*Config, error) {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Storage.ShardCount <= 0 {
		cfg.Storage.ShardCount = 32
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate reports settings that cannot be applied
func (c *Config) Validate() error {
	if c.Storage.StatsInterval < 0 {
		return errors.New("storage.stats_interval cannot be negative")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}
	for coll, fields := range c.Storage.Indexes {
		for _, field := range fields {
			if field == "" {
				return errors.Errorf("storage.indexes.%s: empty field name", coll)
			}
		}
	}
	return nil
}
