// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/glooble/pkg/types"
)

func testServer(statusCode int, body string, seen *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = map[string]any{"path": r.URL.Path}
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				(*seen)["body"] = req
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func testClient(ts *httptest.Server) *Client {
	return &Client{HTTP: ts.Client(), Endpoint: ts.URL + "/", UserAgent: "test/0.1"}
}

const sampleQueryJSON = `{
  "results": [
    {"url": "https://react.dev", "title": "React", "text": "A library", "tags": ["js"], "authors": ["Meta"], "score": 0.9},
    {"url": "https://example.com/hooks", "title": "", "text": "", "tags": [], "authors": []}
  ],
  "corrections": [["reactt", "react"]],
  "total_results": 42
}`

func TestQuery(t *testing.T) {
	var seen map[string]any
	ts := testServer(http.StatusOK, sampleQueryJSON, &seen)
	defer ts.Close()

	out, err := testClient(ts).Query(context.Background(), QueryRequest{Query: "reactt", Page: 2, PerPage: 10})
	require.NoError(t, err)

	assert.False(t, out.NotFound)
	assert.Equal(t, 42, out.TotalResults)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "https://react.dev", out.Results[0].URL)
	require.NotNil(t, out.Results[0].Score)
	assert.Equal(t, 0.9, *out.Results[0].Score)
	assert.Equal(t, []types.CorrectionPair{{Original: "reactt", Corrected: "react"}}, out.Corrections)

	assert.Equal(t, "/query", seen["path"])
	assert.Equal(t, map[string]any{
		"query":       "reactt",
		"useOriginal": false,
		"page":        float64(2),
		"per_page":    float64(10),
	}, seen["body"])
}

func TestQueryWithoutCorrections(t *testing.T) {
	ts := testServer(http.StatusOK, `{"results": [], "total_results": 0}`, nil)
	defer ts.Close()

	out, err := testClient(ts).Query(context.Background(), QueryRequest{Query: "go", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, out.Corrections)
	assert.Empty(t, out.Results)
}

func TestQueryNotFound(t *testing.T) {
	ts := testServer(http.StatusNotFound, `{"error": "no results"}`, nil)
	defer ts.Close()

	out, err := testClient(ts).Query(context.Background(), QueryRequest{Query: "zzz", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.True(t, out.NotFound)
	assert.Empty(t, out.Results)
}

func TestQueryFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error": "boom"}`},
		{"bad request", http.StatusBadRequest, `{}`},
		{"not json", http.StatusOK, `<html>`},
		{"missing results", http.StatusOK, `{"total_results": 3}`},
		{"null results", http.StatusOK, `{"results": null, "total_results": 0}`},
		{"missing total", http.StatusOK, `{"results": []}`},
		{"negative total", http.StatusOK, `{"results": [], "total_results": -1}`},
		{"total not integer", http.StatusOK, `{"results": [], "total_results": "3"}`},
		{"tags not array", http.StatusOK, `{"results": [{"url": "u", "tags": "a,b"}], "total_results": 1}`},
		{"short correction", http.StatusOK, `{"results": [], "corrections": [["only"]], "total_results": 0}`},
		{"legacy urls body", http.StatusOK, `{"urls": ["https://a"]}`},
		{"trailing data", http.StatusOK, `{"results": [], "total_results": 0} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testServer(tt.status, tt.body, nil)
			defer ts.Close()

			_, err := testClient(ts).Query(context.Background(), QueryRequest{Query: "go", Page: 1, PerPage: 10})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTransport)

			var berr *Error
			require.True(t, errors.As(err, &berr))
			assert.Equal(t, "query", berr.Op)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, berr.StatusCode)
			}
		})
	}
}

func TestQueryUnreachable(t *testing.T) {
	ts := testServer(http.StatusOK, `{}`, nil)
	ts.Close()

	_, err := testClient(ts).Query(context.Background(), QueryRequest{Query: "go", Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestQueryContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := testClient(ts).Query(ctx, QueryRequest{Query: "go", Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpload(t *testing.T) {
	var seen map[string]any
	ts := testServer(http.StatusOK, `{"success": true}`, &seen)
	defer ts.Close()

	score := 0.4
	out, err := testClient(ts).Upload(context.Background(), types.Article{URL: "u", Title: "t", Text: "x", Score: &score})
	require.NoError(t, err)
	assert.True(t, out.Success)

	assert.Equal(t, "/upload", seen["path"])
	assert.Equal(t, map[string]any{
		"url": "u", "title": "t", "text": "x", "tags": []any{}, "authors": []any{},
	}, seen["body"])
}

func TestUploadSuccessMarker(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		success bool
		message string
	}{
		{"explicit true", `{"success": true}`, true, ""},
		{"explicit false", `{"success": false, "message": "duplicate url"}`, false, "duplicate url"},
		{"missing marker", `{"status": "ok"}`, false, ""},
		{"error field", `{"success": false, "error": "index full"}`, false, "index full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testServer(http.StatusOK, tt.body, nil)
			defer ts.Close()

			out, err := testClient(ts).Upload(context.Background(), types.Article{URL: "u"})
			require.NoError(t, err)
			assert.Equal(t, tt.success, out.Success)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"success": true}`},
		{"created but not json", http.StatusCreated, `ok`},
		{"success not boolean", http.StatusOK, `{"success": "true"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testServer(tt.status, tt.body, nil)
			defer ts.Close()

			_, err := testClient(ts).Upload(context.Background(), types.Article{URL: "u"})
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(types.ClientConfig{})
	assert.Equal(t, types.DefaultEndpoint, c.Endpoint)
	assert.Equal(t, types.DefaultUserAgent, c.UserAgent)
	assert.Equal(t, types.DefaultTimeout, c.HTTP.Timeout)
}
