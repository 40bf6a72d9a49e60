// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/internal/journal"
	"github.com/pdiddy/glooble/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Validate and upload documents",
	Long: `Upload validates each JSON or YAML file and sends the valid ones to the
backend, one request per file. Invalid files never reach the network.
Every attempt that reaches the backend is recorded in the upload journal
(see "glooble uploads"); set journal to "" to disable it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := clientConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var rec upload.Recorder
	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()
		rec = j
	}

	ctx, cancel := signalContext()
	defer cancel()

	sub := upload.New(backend.New(cfg), rec, logger)
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		o := sub.SubmitFile(ctx, path)
		if o.Succeeded {
			fmt.Fprintf(out, "UPLOADED  %s: %s\n", path, o.Article.Title)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAILED    %s (%s): %s\n", path, o.Kind, o.Reason)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d upload(s) failed", failed, len(args))
	}
	return nil
}
