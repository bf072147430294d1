package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// StoreConfig selects and configures the chain store.
type StoreConfig struct {
	Kind         string `json:"kind"` // file, sqlite or redis
	DataDir      string `json:"data_dir"`
	DatabasePath string `json:"database_path"`
	RedisAddr    string `json:"redis_addr"`
	RedisDB      int    `json:"redis_db"`
}

// Config is the top-level configuration of the typechain command.
type Config struct {
	LogLevel    string       `json:"log_level"`
	Store       *StoreConfig `json:"store_config"`
	Seed        uint64       `json:"seed"` // 0 picks a random seed per run
	GraphFormat string       `json:"graph_format"`
	ShapeMode   string       `json:"shape_mode"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Store: &StoreConfig{
			Kind:         "file",
			DataDir:      "./data/chains",
			DatabasePath: "./data/typechain.db",
			RedisAddr:    "localhost:6379",
			RedisDB:      0,
		},
		Seed:        0,
		GraphFormat: "edges",
		ShapeMode:   "length",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Still usable with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Store == nil {
		config.Store = DefaultConfig().Store
	}
	return config, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
