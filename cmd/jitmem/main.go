// Command jitmem is a driver around the jitmem library: it loads hex code
// images into page-backed W^X memory, runs them, and reports what the OS
// thinks of that memory.
package main

import (
	"fmt"
	"os"

	"github.com/eh-steve/jitmem/config"
	"github.com/eh-steve/jitmem/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool

	cfg    config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:           "jitmem",
	Short:         "run machine-code images from page-backed W^X memory",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return err
		}
		logger, err = log.NewLogger(cfg.Log.Level, debug)
		return err
	},
}

// loadConfig reads the file named by --config, or jitmem.toml when one is
// sitting in the working directory, or falls back to the defaults.
func loadConfig() (config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if _, err := os.Stat(config.FileName); err == nil {
		return config.Load(config.FileName)
	}
	return config.Default(), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.FileName+" when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Errorw("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
