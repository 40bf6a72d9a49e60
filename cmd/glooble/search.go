// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run a query and print one page of results",
	Long: `Search sends the query to the backend and prints the requested page.
When the backend corrects the spelling of the query, the corrected results
are shown with a note; pass --original to search for the words as typed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("page", 1, "page to show")
	searchCmd.Flags().Bool("original", false, "search for the query as typed, without corrections")
	searchCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	original, _ := cmd.Flags().GetBool("original")
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := clientConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	c := session.New(backend.New(cfg), cfg, logger)
	searchErr := c.SubmitQuery(ctx, strings.Join(args, " "), original)
	if searchErr == nil && page != 1 {
		searchErr = c.ChangePage(ctx, page)
	}

	if err := render(c.View(), format, cmd.OutOrStdout()); err != nil {
		return err
	}
	return searchErr
}

func checkFormat(format string) error {
	switch format {
	case "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
}

func render(v session.View, format string, w io.Writer) error {
	switch format {
	case "json":
		return session.FormatJSON(v, w)
	case "yaml":
		return session.FormatYAML(v, w)
	default:
		session.FormatTable(v, w)
		return nil
	}
}
