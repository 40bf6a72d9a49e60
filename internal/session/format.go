// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/glooble/internal/pagination"
	"github.com/pdiddy/glooble/pkg/types"
)

// FormatTable writes a human-readable rendering of v to w: the error or
// correction banner, the result list, and the pagination line.
func FormatTable(v View, w io.Writer) {
	switch v.Status {
	case types.StatusIdle:
		fmt.Fprintln(w, "Enter a query to search.")
		return
	case types.StatusSearching:
		fmt.Fprintf(w, "Searching for %q...\n", v.Query)
		return
	case types.StatusFailed:
		fmt.Fprintf(w, "error: %s\n", v.LastError)
	}

	if len(v.Corrections) > 0 {
		fmt.Fprintf(w, "Showing results for %s\n", joinPairs(v.Corrections, func(p types.CorrectionPair) string { return p.Corrected }))
		fmt.Fprintf(w, "Search instead for %s\n\n", joinPairs(v.Corrections, func(p types.CorrectionPair) string { return p.Original }))
	}

	if len(v.Results) == 0 {
		if v.Status == types.StatusSucceeded {
			fmt.Fprintln(w, "No results found.")
		}
		return
	}

	first := (v.Page-1)*v.PerPage + 1
	for i, r := range v.Results {
		fmt.Fprintf(w, "%3d. %s\n", first+i, r.Title)
		fmt.Fprintf(w, "     %s\n", r.URL)
		if r.Text != "" {
			fmt.Fprintf(w, "     %s\n", r.Text)
		}
		meta := "     by " + strings.Join(r.Authors, ", ")
		if len(r.Tags) > 0 {
			meta += "  [" + strings.Join(r.Tags, ", ") + "]"
		}
		if r.Score != nil {
			meta += fmt.Sprintf("  score %.2f", *r.Score)
		}
		fmt.Fprintln(w, meta)
	}

	fmt.Fprintf(w, "\n%d results", v.TotalResults)
	if v.Pages > 1 {
		fmt.Fprintf(w, ", page %d of %d: %s", v.Page, v.Pages, pagination.Format(v.Window, v.Page))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the session snapshot as indented JSON to w.
func FormatJSON(v View, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v.SearchSession)
}

// FormatYAML writes the session snapshot as YAML to w.
func FormatYAML(v View, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.SearchSession); err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return enc.Close()
}

func joinPairs(pairs []types.CorrectionPair, pick func(types.CorrectionPair) string) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = pick(p)
	}
	return strings.Join(parts, ", ")
}
