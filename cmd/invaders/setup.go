package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/config"
	"github.com/vovakirdan/term-invaders/internal/storage"
)

// loadConfig resolves the configuration file and environment, then
// applies any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return cfg, source, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FrameRate = flagFPS
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("panic-on-errors") {
		cfg.PanicOnErrors = flagPanicOnErrors
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, source, err
	}
	return cfg, source, nil
}

// newLogger builds the process logger. The returned closer releases the
// log file, if one was opened.
func newLogger(cfg config.Config) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if cfg.Log.File != "" {
		path, err := config.ExpandPath(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "invaders",
		Level:           level,
	})
	return logger, closer, nil
}

// openStore opens the run history when enabled. Failure is not fatal:
// the game runs without history.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := openHistory(cfg)
	if err != nil {
		logger.Warn("could not open run history", "error", err)
		// Continue without storage
		return nil
	}
	return store
}

// openHistory opens the run history database at the configured path,
// with "~" resolved to the home directory.
func openHistory(cfg config.Config) (*storage.Store, error) {
	path, err := config.ExpandPath(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}
