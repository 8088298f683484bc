// Package config resolves taskflow settings from, in rising priority:
// built-in defaults, the user config file, the project config file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"slices"
	"strings"
)

const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"

	DefaultDataFile    = "taskflow.json"
	DefaultKey         = "tasks"
	DefaultValidation  = "warn"
	DefaultRedisPrefix = "taskflow:"
	DefaultTheme       = "classic"

	// FileName is looked up in the user config dir and, along with its dot
	// variant, in the working directory.
	FileName = "taskflow.toml"
)

type Config struct {
	Storage    string      `toml:"storage"`
	DataFile   string      `toml:"data_file"`
	Key        string      `toml:"key"`
	Validation string      `toml:"validation"`
	Theme      string      `toml:"theme"`
	NoColor    bool        `toml:"no_color"`
	Redis      RedisConfig `toml:"redis"`
	Log        LogConfig   `toml:"log"`

	// Files lists the config files that were applied, in order.
	Files []string `toml:"-"`
}

type RedisConfig struct {
	URL    string `toml:"url"`
	Prefix string `toml:"prefix"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

func setDefaults(cfg *Config) {
	cfg.Storage = StorageFile
	cfg.DataFile = DefaultDataFile
	cfg.Key = DefaultKey
	cfg.Validation = DefaultValidation
	cfg.Theme = DefaultTheme
	cfg.Redis.Prefix = DefaultRedisPrefix
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if !slices.Contains([]string{StorageFile, StorageMemory, StorageRedis}, c.Storage) {
		return fmt.Errorf("storage: unknown backend %q (want file, memory or redis)", c.Storage)
	}
	c.Validation = strings.ToLower(strings.TrimSpace(c.Validation))
	if !slices.Contains([]string{"off", "warn", "strict"}, c.Validation) {
		return fmt.Errorf("validation: unknown mode %q (want off, warn or strict)", c.Validation)
	}
	if c.Storage == StorageRedis && c.Redis.URL == "" {
		return fmt.Errorf("storage: redis needs redis.url")
	}
	if c.Key == "" {
		return fmt.Errorf("key: must not be empty")
	}
	return nil
}
