package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/squidpickles/bipbuffer/internal/config"
)

var (
	// Global flags
	configFile string

	// Set in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var loader = config.NewLoader()

var rootCmd = &cobra.Command{
	Use:   "bipstage",
	Short: "Stage data through a bip-buffer",
	Long: `bipstage moves data through a bip-buffer, a circular buffer that always
hands out contiguous blocks. It can stage a byte stream from one file to another
and run a randomized workload that checks the buffer's invariants.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loader.Load(configFile)
		if err != nil {
			return errors.Wrap(err, "load configuration")
		}
		logger, err = newLogger(cfg.Log)
		if err != nil {
			return errors.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file")
	flags.Int("capacity", 0, "Buffer capacity in elements")
	flags.Int("chunk", 0, "Largest single reservation in elements")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console, json)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	v := loader.Viper()
	for key, flag := range map[string]string{
		"buffer.capacity": "capacity",
		"buffer.chunk":    "chunk",
		"log.level":       "log-level",
		"log.format":      "log-format",
		"metrics.addr":    "metrics-addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
