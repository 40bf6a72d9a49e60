// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package devserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/glooble/pkg/types"
)

func sampleDocs() []types.Article {
	return []types.Article{
		{URL: "https://react.dev", Title: "React", Text: "React builds user interfaces. React components.", Tags: []string{"javascript"}},
		{URL: "https://go.dev", Title: "Go", Text: "Go is a language for building services.", Tags: []string{"golang"}},
		{URL: "https://preact.dev", Title: "Preact", Text: "A small React alternative.", Authors: []string{"Jason"}},
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "42"}, Tokenize("Hello, WORLD! 42"))
	assert.Empty(t, Tokenize("  ... "))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"react", "react", 0},
		{"reactt", "react", 1},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, levenshtein(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}

func TestCorpusSuggest(t *testing.T) {
	c := NewCorpus(sampleDocs())

	got, ok := c.Suggest("reactt", 2)
	require.True(t, ok)
	assert.Equal(t, "react", got)

	_, ok = c.Suggest("zzzzzzzz", 2)
	assert.False(t, ok)
}

func TestCorpusSuggestSkipsShortTerms(t *testing.T) {
	c := NewCorpus(sampleDocs())

	for _, term := range []string{"x", "gq", "é"} {
		_, ok := c.Suggest(term, 2)
		assert.False(t, ok, term)
	}

	got, ok := c.Suggest("goo", 2)
	require.True(t, ok)
	assert.Equal(t, "go", got)

	got, ok = c.Suggest("gq", 1)
	require.True(t, ok, "two runes exceed a bound of one")
	assert.Equal(t, "go", got)
}

func TestCorpusMatchRequiresEveryTerm(t *testing.T) {
	c := NewCorpus(sampleDocs())

	got := c.Match([]string{"react"})
	require.Len(t, got, 2)
	assert.Equal(t, "https://react.dev", got[0].URL, "more occurrences rank first")
	require.NotNil(t, got[0].Score)
	assert.InDelta(t, 1.0, *got[0].Score, 1e-9)

	got = c.Match([]string{"react", "alternative"})
	require.Len(t, got, 1)
	assert.Equal(t, "https://preact.dev", got[0].URL)

	assert.Empty(t, c.Match([]string{"react", "golang"}))
	assert.Empty(t, c.Match(nil))
}

func TestCorpusAddRejectsDuplicates(t *testing.T) {
	c := NewCorpus(sampleDocs())
	require.Equal(t, 3, c.Len())

	err := c.Add(types.Article{URL: "https://go.dev", Title: "again"})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, c.Add(types.Article{URL: "https://svelte.dev", Title: "Svelte", Text: "compiler"}))
	assert.Equal(t, 4, c.Len())
	assert.True(t, c.Has("svelte"))
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	data := `documents:
  - url: https://react.dev
    title: React
    text: React builds user interfaces.
    tags: [javascript]
    authors: [Meta]
  - url: https://go.dev
    title: Go
    text: Go is a language.
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := LoadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Has("meta"))

	_, err = LoadCorpus(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
