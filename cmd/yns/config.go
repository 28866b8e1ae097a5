package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spitkov/yns/internal/common/config"
	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/output"
	"github.com/spf13/cobra"
)

var (
	configInit   bool
	configFormat string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration yns is running with.

Configuration is read from the first file found in:
  1. --config
  2. $XDG_CONFIG_HOME/yns/config.yaml
  3. /etc/yns/config.yaml
  4. /etc/yns/config.toml

With --init the effective configuration is written to the user config path
(or to --config when given).`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the configuration to a file")
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format: yaml or toml")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	if configInit {
		path, err := initConfig(cfg, cfgFile)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		output.PrintSuccess("Configuration written to %s", path)
		return
	}

	data, err := cfg.Marshal(configFormat)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	output.Dim.Fprintf(cmd.OutOrStdout(), "# source: %s\n", describeSource(cfg))
	fmt.Fprint(cmd.OutOrStdout(), string(data))
}

// initConfig writes c to target, or to the default user path when target is
// empty. An existing file is never overwritten.
func initConfig(c *config.Config, target string) (string, error) {
	path := target
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := c.SaveTo(filepath.Clean(path)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
