// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize turns raw backend result records into display-ready
// Articles: it strips quoting and bracket artifacts from tag and author
// lists, shortens the text preview, and derives a title when none is given.
package sanitize

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/glooble/pkg/types"
)

const (
	// MaxPreview is the maximum preview length in runes before the ellipsis.
	MaxPreview = 180

	// Ellipsis is appended to truncated previews.
	Ellipsis = "..."

	// UnknownAuthor replaces an author list that is empty after cleaning.
	UnknownAuthor = "Unknown"
)

// artifacts are characters left behind when list fields were serialized as
// Python literals upstream (e.g. "['a', 'b']").
var artifacts = strings.NewReplacer("[", "", "]", "", "'", "", `"`, "")

var newlines = strings.NewReplacer(`\n`, " ", "\r\n", " ", "\n", " ")

// Record normalizes one raw record. It reports false when the record has no
// URL and must be dropped.
func Record(raw types.Article) (types.Article, bool) {
	u := strings.TrimSpace(raw.URL)
	if u == "" {
		return types.Article{}, false
	}

	out := types.Article{
		URL:     u,
		Title:   strings.TrimSpace(raw.Title),
		Text:    preview(raw.Text),
		Tags:    cleanList(raw.Tags),
		Authors: cleanList(raw.Authors),
	}
	if len(out.Authors) == 0 {
		out.Authors = []string{UnknownAuthor}
	}
	if out.Title == "" {
		out.Title = fallbackTitle(u)
	}
	if raw.Score != nil {
		s := *raw.Score
		out.Score = &s
	}
	return out, true
}

// Records sanitizes each record in order, dropping the ones without a URL.
// The result is never nil.
func Records(raw []types.Article) []types.Article {
	out := make([]types.Article, 0, len(raw))
	for _, r := range raw {
		if a, ok := Record(r); ok {
			out = append(out, a)
		}
	}
	return out
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(artifacts.Replace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// preview collapses newline escapes and truncates to MaxPreview runes.
func preview(text string) string {
	text = strings.TrimSpace(newlines.Replace(text))
	if utf8.RuneCountInString(text) <= MaxPreview {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxPreview]) + Ellipsis
}

// fallbackTitle returns the host of rawURL, or rawURL itself when it has none.
func fallbackTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return rawURL
	}
	return parsed.Hostname()
}
