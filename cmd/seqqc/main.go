// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the seqqc CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/seqqc/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg carries stage defaults from the config file and SEQQC_*
// environment variables. Flags override its values per invocation.
var cfg types.Config

// rootCmd is the base command for the seqqc CLI.
var rootCmd = &cobra.Command{
	Use:   "seqqc",
	Short: "Rule-based QC assessment for sequencing data",
	Long: `seqqc assesses FastQC output against organism- and experiment-aware
quality thresholds, suggests concrete remediation commands, and verifies
that running them actually improved the data.

Each stage is a subcommand: parse, analyze, fix, report, batch, and
pipeline. Stages exchange JSON files, so any step can be re-run or
inspected in isolation.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./seqqc.yaml or ~/.config/seqqc/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("seqqc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "seqqc"))
		}
	}

	viper.SetEnvPrefix("SEQQC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Ignoring malformed configuration: %v\n", err)
		cfg = types.Config{}
	}
}

// newLogger builds the structured logger injected into the batch and
// pipeline runners. Quiet unless --verbose.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// writeOutput serializes v as indented JSON to path.
func writeOutput(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
