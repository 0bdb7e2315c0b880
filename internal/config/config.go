// Package config provides YAML-based engine configuration with
// environment and command-line overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// MaxFrameRate is the highest frame rate that can be configured.
const MaxFrameRate = 255

// Config contains all engine configuration.
type Config struct {
	FrameRate     int           `yaml:"frame_rate"`
	BulletTime    int           `yaml:"bullet_time"`
	EnemyTime     int           `yaml:"enemy_time"`
	PanicOnErrors bool          `yaml:"panic_on_errors"`
	Seed          int64         `yaml:"seed"`
	Stars         StarsConfig   `yaml:"stars"`
	Render        RenderConfig  `yaml:"render"`
	Log           LogConfig     `yaml:"log"`
	Storage       StorageConfig `yaml:"storage"`
}

// StarsConfig defines the falling-star background.
type StarsConfig struct {
	Count     int    `yaml:"count"`
	Glyphs    string `yaml:"glyphs"`
	FallTicks int    `yaml:"fall_ticks"`
}

// RenderConfig defines frame layout options.
type RenderConfig struct {
	LegacyRowWidth bool `yaml:"legacy_row_width"`
	Color          bool `yaml:"color"`
}

// LogConfig defines where and how verbosely to log.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StorageConfig defines the run history database.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.FrameRate < 0 || c.FrameRate > MaxFrameRate {
		return fmt.Errorf("config: frame_rate must be in [0, %d], got %d", MaxFrameRate, c.FrameRate)
	}
	if c.BulletTime < 0 {
		return fmt.Errorf("config: bullet_time must not be negative, got %d", c.BulletTime)
	}
	if c.EnemyTime < 0 {
		return fmt.Errorf("config: enemy_time must not be negative, got %d", c.EnemyTime)
	}
	if c.Stars.Count < 0 {
		return fmt.Errorf("config: stars.count must not be negative, got %d", c.Stars.Count)
	}
	if c.Stars.FallTicks < 1 {
		return fmt.Errorf("config: stars.fall_ticks must be at least 1, got %d", c.Stars.FallTicks)
	}
	if strings.TrimSpace(c.Stars.Glyphs) == "" {
		return fmt.Errorf("config: stars.glyphs must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Storage.Enabled && c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage.db_path is required when storage is enabled")
	}
	return nil
}

// YAML encodes the configuration.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return data, nil
}
