package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INVADERS_"

// SourceEmbedded is reported when no configuration file was found.
const SourceEmbedded = "embedded"

// Loader resolves configuration from files and the environment.
// The zero value is not usable; start from NewLoader.
type Loader struct {
	// HomeDir returns the user's home directory.
	HomeDir func() (string, error)
	// WorkDir is the directory ./configs is resolved against.
	WorkDir string
	// DotEnv is the .env file loaded before environment lookups.
	// Missing files are ignored.
	DotEnv string
	// LookupEnv reads one environment variable.
	LookupEnv func(key string) (string, bool)
}

// NewLoader returns a loader bound to the real process environment.
func NewLoader() *Loader {
	return &Loader{
		HomeDir:   os.UserHomeDir,
		WorkDir:   ".",
		DotEnv:    ".env",
		LookupEnv: os.LookupEnv,
	}
}

// Load resolves configuration with the process environment.
// See Loader.Load for the search order.
func Load(customPath string) (Config, string, error) {
	return NewLoader().Load(customPath)
}

// Load reads configuration and returns it with the path it came from.
// Search order: customPath -> ~/.invaders/config.yaml ->
// ./configs/invaders.yaml -> embedded default. Environment overrides
// are applied on top and the result is validated.
func (l *Loader) Load(customPath string) (Config, string, error) {
	cfg, source, err := l.loadFile(customPath)
	if err != nil {
		return cfg, source, err
	}

	if err := l.loadDotEnv(); err != nil {
		return cfg, source, err
	}
	if err := ApplyEnv(&cfg, l.LookupEnv); err != nil {
		return cfg, source, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, source, err
	}
	return cfg, source, nil
}

func (l *Loader) loadFile(customPath string) (Config, string, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), customPath, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Default(), customPath, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	// Try user config directory
	if path := l.userConfigPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, path, nil
			}
		}
	}

	// Try local configs directory
	local := filepath.Join(l.WorkDir, "configs", "invaders.yaml")
	if data, err := os.ReadFile(local); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, local, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), SourceEmbedded, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

// parse decodes YAML over the defaults so partial files keep
// the remaining settings.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func (l *Loader) userConfigPath() string {
	if l.HomeDir == nil {
		return ""
	}
	home, err := l.HomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".invaders", "config.yaml")
}

// loadDotEnv loads the .env file into the process environment.
// Variables already set are not overwritten.
func (l *Loader) loadDotEnv() error {
	if l.DotEnv == "" {
		return nil
	}
	if err := godotenv.Load(l.DotEnv); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", l.DotEnv, err)
	}
	return nil
}

// ApplyEnv overrides cfg with INVADERS_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	e := envReader{lookup: lookup}

	e.setInt("FRAME_RATE", &cfg.FrameRate)
	e.setInt("BULLET_TIME", &cfg.BulletTime)
	e.setInt("ENEMY_TIME", &cfg.EnemyTime)
	e.setBool("PANIC_ON_ERRORS", &cfg.PanicOnErrors)
	e.setInt64("SEED", &cfg.Seed)
	e.setInt("STAR_COUNT", &cfg.Stars.Count)
	e.setString("STAR_GLYPHS", &cfg.Stars.Glyphs)
	e.setInt("STAR_FALL_TICKS", &cfg.Stars.FallTicks)
	e.setBool("LEGACY_ROW_WIDTH", &cfg.Render.LegacyRowWidth)
	e.setBool("COLOR", &cfg.Render.Color)
	e.setString("LOG_LEVEL", &cfg.Log.Level)
	e.setString("LOG_FILE", &cfg.Log.File)
	e.setBool("STORAGE_ENABLED", &cfg.Storage.Enabled)
	e.setString("DB_PATH", &cfg.Storage.DBPath)

	return e.err
}

// envReader applies typed overrides and keeps the first parse error.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(name, value string, err error) {
	e.err = fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, name, value, err)
}

func (e *envReader) setString(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) setInt(name string, dst *int) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = n
}

func (e *envReader) setInt64(name string, dst *int64) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = n
}

func (e *envReader) setBool(name string, dst *bool) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = b
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
