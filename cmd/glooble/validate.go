// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/glooble/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check documents locally without uploading",
	Long: `Validate parses each JSON or YAML file and checks that it is a single
document with string url, title, and text fields and string-list tags and
authors. Nothing is sent to the backend.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		a, err := validate.ParseFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "INVALID  %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "OK       %s: %s (%s)\n", path, a.Title, a.URL)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) invalid", failed, len(args))
	}
	return nil
}
