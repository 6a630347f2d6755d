package server

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"unimax-chess/engine"

	"github.com/rs/zerolog"
)

// Config is the JSON-loadable server configuration.
type Config struct {
	Addr     string `json:"addr"`
	Depth    int    `json:"depth"`
	Seed     uint64 `json:"seed"`
	LogLevel string `json:"log_level"`
	MaxDepth int    `json:"max_depth"`
}

func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		Depth:    engine.DefaultDepth,
		LogLevel: "info",
		// Unimax trees grow with the full branching factor; depth 4 from the
		// opening is already several hundred thousand nodes.
		MaxDepth: 4,
	}
}

// LoadConfig reads path on top of DefaultConfig. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth %d", engine.ErrInvalidDepth, c.MaxDepth)
	}
	if c.Depth < 0 || c.Depth > c.MaxDepth {
		return fmt.Errorf("%w: depth %d outside [0,%d]", engine.ErrInvalidDepth, c.Depth, c.MaxDepth)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// engineConfig derives the per-game settings.
func (c Config) engineConfig(logger zerolog.Logger) engine.Config {
	return engine.Config{Depth: c.Depth, Seed: c.Seed, Logger: logger}
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{config: cfg}
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
