// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the glooble CLI: search a document
// backend, page through results, and upload new documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/glooble/internal/logging"
	"github.com/pdiddy/glooble/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the glooble CLI.
var rootCmd = &cobra.Command{
	Use:   "glooble",
	Short: "Search and upload documents against a glooble backend",
	Long: `glooble is a client for a document search backend. It issues queries,
shows spelling corrections and paged results, and uploads JSON or YAML
documents after checking their shape locally.

Settings come from flags, GLOOBLE_* environment variables, or glooble.yaml
in the current directory or ~/.config/glooble/.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./glooble.yaml or ~/.config/glooble/glooble.yaml)")
	rootCmd.PersistentFlags().String("endpoint", types.DefaultEndpoint, "backend base URL")
	rootCmd.PersistentFlags().Int("per-page", types.DefaultPerPage, "results per page")
	rootCmd.PersistentFlags().Duration("timeout", types.DefaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().Bool("debug", false, "human-readable debug logging")

	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("per_page", rootCmd.PersistentFlags().Lookup("per-page"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("user_agent", types.DefaultUserAgent)
	viper.SetDefault("journal", types.DefaultJournal)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("glooble")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "glooble"))
		}
	}

	viper.SetEnvPrefix("GLOOBLE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientConfig decodes the merged flag, env, and file settings.
func clientConfig() (types.ClientConfig, error) {
	var cfg types.ClientConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// signalContext is canceled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
