package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/admesh-io/admesh/bus"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// RouterConfig configures query routing defaults.
type RouterConfig struct {
	DefaultAgent string `yaml:"default_agent"`
	MaxMessages  int    `yaml:"max_messages"`
}

// StorageConfig selects the message log backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`    // sqlite database file
}

// ModelConfig configures an optional model provider for agent narratives.
type ModelConfig struct {
	Provider string `yaml:"provider"` // "", "anthropic", "openai", "mock"
	Name     string `yaml:"name"`
	APIKey   string `yaml:"api_key"`
}

// ScheduleConfig maps a pipeline name to a cron spec.
type ScheduleConfig struct {
	Pipeline string `yaml:"pipeline"`
	Spec     string `yaml:"spec"`
}

// Config is the full mesh configuration.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Logging   LoggingConfig    `yaml:"logging"`
	Router    RouterConfig     `yaml:"router"`
	Storage   StorageConfig    `yaml:"storage"`
	Model     ModelConfig      `yaml:"model"`
	Schedules []ScheduleConfig `yaml:"schedules"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Router: RouterConfig{
			DefaultAgent: "analyst",
			MaxMessages:  bus.DefaultMaxMessages,
		},
		Storage: StorageConfig{Backend: "memory"},
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Router.DefaultAgent == "" {
		c.Router.DefaultAgent = d.Router.DefaultAgent
	}
	if c.Router.MaxMessages <= 0 {
		c.Router.MaxMessages = d.Router.MaxMessages
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
}

// Validate rejects configurations the mesh cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}

	switch c.Model.Provider {
	case "", "mock", "anthropic", "openai":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}

	for _, s := range c.Schedules {
		if s.Pipeline == "" || s.Spec == "" {
			return fmt.Errorf("schedules entries need both pipeline and spec")
		}
	}
	return nil
}
