// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/glooble/internal/journal"
)

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List recent upload attempts from the journal",
	Args:  cobra.NoArgs,
	RunE:  runUploads,
}

func init() {
	uploadsCmd.Flags().Int("limit", 20, "maximum entries to show")
	uploadsCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(uploadsCmd)
}

func runUploads(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := clientConfig()
	if err != nil {
		return err
	}
	if cfg.Journal == "" {
		return fmt.Errorf("upload journal is disabled")
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatEntries(entries, jsonOutput, cmd.OutOrStdout())
}

func formatEntries(entries []journal.Entry, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No uploads recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-10s  %-40s  %s\n", "Time", "Outcome", "URL", "Reason")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s  %-10s  %-40s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Outcome, truncate(e.URL, 40), e.Reason)
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}
