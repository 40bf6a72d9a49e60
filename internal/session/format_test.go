// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/pkg/types"
)

func TestFormatTableIdle(t *testing.T) {
	c := newController(&fakeBackend{respond: pagedResults(0)})
	var buf bytes.Buffer
	FormatTable(c.View(), &buf)
	assert.Contains(t, buf.String(), "Enter a query")
}

func TestFormatTableResultsAndCorrections(t *testing.T) {
	c := newController(&fakeBackend{respond: pagedResults(35)})
	require.NoError(t, c.SubmitQuery(context.Background(), "reactt", false))
	require.NoError(t, c.ChangePage(context.Background(), 2))

	var buf bytes.Buffer
	FormatTable(c.View(), &buf)
	out := buf.String()

	assert.Contains(t, out, "Showing results for react\n")
	assert.Contains(t, out, "Search instead for reactt\n")
	assert.Contains(t, out, " 11. reactt result 10")
	assert.Contains(t, out, "by Unknown")
	assert.Contains(t, out, "35 results, page 2 of 4: 1 [2] 3 4")
}

func TestFormatTableNoResults(t *testing.T) {
	c := newController(&fakeBackend{respond: func(backend.QueryRequest) (backend.QueryResponse, error) {
		return backend.QueryResponse{NotFound: true}, nil
	}})
	require.NoError(t, c.SubmitQuery(context.Background(), "zzz", false))

	var buf bytes.Buffer
	FormatTable(c.View(), &buf)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestFormatTableFailure(t *testing.T) {
	c := newController(&fakeBackend{respond: func(backend.QueryRequest) (backend.QueryResponse, error) {
		return backend.QueryResponse{}, &backend.Error{Op: "query", StatusCode: 503}
	}})
	require.Error(t, c.SubmitQuery(context.Background(), "go", false))

	var buf bytes.Buffer
	FormatTable(c.View(), &buf)
	assert.Contains(t, buf.String(), "error: query: backend returned HTTP 503")
	assert.NotContains(t, buf.String(), "No results found.")
}

func TestFormatJSONAndYAML(t *testing.T) {
	c := newController(&fakeBackend{respond: pagedResults(2)})
	require.NoError(t, c.SubmitQuery(context.Background(), "reactt", false))

	var jbuf bytes.Buffer
	require.NoError(t, FormatJSON(c.View(), &jbuf))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &decoded))
	assert.Equal(t, "reactt", decoded["query"])
	assert.Equal(t, "succeeded", decoded["status"])
	assert.Equal(t, []any{[]any{"reactt", "react"}}, decoded["corrections"])

	var ybuf bytes.Buffer
	require.NoError(t, FormatYAML(c.View(), &ybuf))
	var s types.SearchSession
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &s))
	assert.Equal(t, "reactt", s.Query)
	assert.Len(t, s.Results, 2)
	assert.Equal(t, "react", s.Corrections[0].Corrected)
}
