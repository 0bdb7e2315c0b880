package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration that "invaders play" would use, after the
config file, .env, INVADERS_* environment variables and flags are applied.

Use --defaults to print the built-in config file, a good starting point for
~/.invaders/config.yaml.

Examples:
  invaders config
  invaders config --fps 30
  invaders config --defaults > ~/.invaders/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in default config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if flagDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return nil
	}

	cfg, source, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}

	fmt.Printf("# source: %s\n", source)
	fmt.Print(string(data))
	return nil
}
