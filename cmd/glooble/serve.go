// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/glooble/internal/devserver"
	"github.com/pdiddy/glooble/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve-dev",
	Short: "Run a local in-memory backend for development",
	Long: `Serve-dev starts a small backend implementing /query and /upload over an
in-memory corpus. The corpus is a YAML file with a top-level "documents"
list; uploads are kept in memory only. Misspelled query words are
corrected to the closest indexed word.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", devserver.DefaultAddr, "listen address")
	serveCmd.Flags().String("corpus", "", "YAML corpus file (empty starts with no documents)")
	serveCmd.Flags().Int("max-edit-distance", devserver.DefaultMaxEditDistance, "largest edit distance corrected")
	serveCmd.Flags().StringSlice("allow-origin", []string{"*"}, "browser origins allowed by CORS")

	_ = viper.BindPFlag("dev.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("dev.corpus", serveCmd.Flags().Lookup("corpus"))
	_ = viper.BindPFlag("dev.max_edit_distance", serveCmd.Flags().Lookup("max-edit-distance"))
	_ = viper.BindPFlag("dev.allowed_origins", serveCmd.Flags().Lookup("allow-origin"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := types.DevServerConfig{
		Addr:            viper.GetString("dev.addr"),
		Corpus:          viper.GetString("dev.corpus"),
		MaxEditDistance: viper.GetInt("dev.max_edit_distance"),
		AllowedOrigins:  viper.GetStringSlice("dev.allowed_origins"),
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	corpus := devserver.NewCorpus(nil)
	if cfg.Corpus != "" {
		if corpus, err = devserver.LoadCorpus(cfg.Corpus); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	return devserver.New(corpus, cfg, logger).Start(ctx)
}
