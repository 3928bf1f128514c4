// Package config loads server configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5m" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds all server settings. Zero values are filled from Default.
type Config struct {
	Addr        string `yaml:"addr"`
	DBPath      string `yaml:"db_path"`
	JWTSecret   string `yaml:"jwt_secret"`
	LogPath     string `yaml:"log_path"`
	MediaOrigin string `yaml:"media_origin"`

	FeedURL string   `yaml:"feed_url"`
	FeedTTL Duration `yaml:"feed_ttl"`

	PageSize int `yaml:"page_size"`

	// PreserveIDOnReturn keeps a record's id when it is returned from the
	// sold collection instead of assigning a fresh one.
	PreserveIDOnReturn bool `yaml:"preserve_id_on_return"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:        ":8080",
		DBPath:      "heavytrade.sqlite3",
		MediaOrigin: "res.cloudinary.com",
		FeedTTL:     Duration(5 * time.Minute),
		PageSize:    10,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.PageSize < 1 {
		return cfg, fmt.Errorf("parsing config: page_size must be positive")
	}
	return cfg, nil
}
