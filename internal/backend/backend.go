// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend is the client for the two contracts of the remote search
// service: POST /query for server-paged results with spelling corrections,
// and POST /upload for submitting a document to the index. Responses are
// decoded strictly; a body that does not match the contract is a failure,
// never silently defaulted.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/glooble/internal/httputil"
	"github.com/pdiddy/glooble/pkg/types"
)

const (
	queryPath  = "/query"
	uploadPath = "/upload"
)

// ErrTransport matches every *Error: the backend was unreachable, answered
// with an unexpected status, or sent a body that breaks the contract.
var ErrTransport = errors.New("transport failure")

// Error describes a failed exchange with the backend.
type Error struct {
	// Op is the contract involved: "query" or "upload".
	Op string

	// StatusCode is the HTTP status, or 0 when no usable response arrived.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned HTTP %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports true for ErrTransport.
func (e *Error) Is(target error) bool { return target == ErrTransport }

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query       string `json:"query"`
	UseOriginal bool   `json:"useOriginal"`
	Page        int    `json:"page"`
	PerPage     int    `json:"per_page"`
}

// QueryResponse is a decoded /query answer. NotFound is set when the backend
// answered 404, which means "no results" rather than failure.
type QueryResponse struct {
	Results      []types.Article
	Corrections  []types.CorrectionPair
	TotalResults int
	NotFound     bool
}

// UploadResponse is a decoded /upload answer. Success is true only when the
// body carried an explicit "success": true.
type UploadResponse struct {
	Success bool
	Message string
}

// Client talks to one backend endpoint.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	UserAgent string
}

// New returns a Client for cfg.Endpoint using cfg's timeout and user agent.
func New(cfg types.ClientConfig) *Client {
	cfg = cfg.WithDefaults()
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		Endpoint:  cfg.Endpoint,
		UserAgent: cfg.UserAgent,
	}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.Endpoint, "/") + path
}

// queryBody mirrors the /query success body. Pointers distinguish a missing
// field from its zero value.
type queryBody struct {
	Results      *[]types.Article       `json:"results"`
	Corrections  []types.CorrectionPair `json:"corrections"`
	TotalResults *int                   `json:"total_results"`
}

// Query issues one POST /query.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	const op = "query"

	resp, err := httputil.PostJSON(ctx, c.HTTP, c.url(queryPath), c.UserAgent, req)
	if err != nil {
		return QueryResponse{}, &Error{Op: op, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		httputil.Drain(resp)
		return QueryResponse{NotFound: true}, nil
	}
	if !httputil.IsSuccess(resp.StatusCode) {
		httputil.Drain(resp)
		return QueryResponse{}, &Error{Op: op, StatusCode: resp.StatusCode}
	}

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return QueryResponse{}, &Error{Op: op, Err: err}
	}

	var body queryBody
	if err := decodeStrict(data, &body); err != nil {
		return QueryResponse{}, &Error{Op: op, Err: err}
	}
	switch {
	case body.Results == nil:
		return QueryResponse{}, &Error{Op: op, Err: errors.New("response missing results")}
	case body.TotalResults == nil:
		return QueryResponse{}, &Error{Op: op, Err: errors.New("response missing total_results")}
	case *body.TotalResults < 0:
		return QueryResponse{}, &Error{Op: op, Err: fmt.Errorf("negative total_results %d", *body.TotalResults)}
	}

	return QueryResponse{
		Results:      *body.Results,
		Corrections:  body.Corrections,
		TotalResults: *body.TotalResults,
	}, nil
}

type uploadBody struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Upload issues one POST /upload carrying a without its score.
func (c *Client) Upload(ctx context.Context, a types.Article) (UploadResponse, error) {
	const op = "upload"

	doc := a.Clone()
	doc.Score = nil
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.Authors == nil {
		doc.Authors = []string{}
	}

	resp, err := httputil.PostJSON(ctx, c.HTTP, c.url(uploadPath), c.UserAgent, doc)
	if err != nil {
		return UploadResponse{}, &Error{Op: op, Err: err}
	}
	if !httputil.IsSuccess(resp.StatusCode) {
		httputil.Drain(resp)
		return UploadResponse{}, &Error{Op: op, StatusCode: resp.StatusCode}
	}

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return UploadResponse{}, &Error{Op: op, Err: err}
	}
	var body uploadBody
	if err := decodeStrict(data, &body); err != nil {
		return UploadResponse{}, &Error{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	out := UploadResponse{Message: body.Message}
	if out.Message == "" {
		out.Message = body.Error
	}
	if body.Success != nil {
		out.Success = *body.Success
	}
	return out, nil
}

// decodeStrict decodes exactly one JSON value from data into v.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if dec.More() {
		return errors.New("decoding response: trailing data")
	}
	return nil
}
