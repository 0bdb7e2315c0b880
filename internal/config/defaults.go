package config

import (
	_ "embed"
)

//go:embed defaults/invaders.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches the embedded
// defaults/invaders.yaml and is used when that file cannot be parsed.
func Default() Config {
	return Config{
		FrameRate:     8,
		BulletTime:    2,
		EnemyTime:     4,
		PanicOnErrors: false,
		Seed:          0,
		Stars: StarsConfig{
			Count:     4,
			Glyphs:    "*",
			FallTicks: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Enabled: true,
			DBPath:  "~/.invaders/runs.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
