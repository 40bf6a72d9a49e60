// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/internal/validate"
	"github.com/pdiddy/glooble/pkg/types"
)

// --- fakes ---

type fakeUploader struct {
	calls []types.Article
	resp  backend.UploadResponse
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, a types.Article) (backend.UploadResponse, error) {
	f.calls = append(f.calls, a)
	return f.resp, f.err
}

type fakeRecorder struct {
	outcomes []Outcome
	err      error
}

func (f *fakeRecorder) Record(_ context.Context, o Outcome, _ time.Time) error {
	f.outcomes = append(f.outcomes, o)
	return f.err
}

func validPayload() map[string]any {
	return map[string]any{
		"title":   "Effective Go",
		"text":    "Tips for writing clear, idiomatic Go code.",
		"url":     "https://go.dev/doc/effective_go",
		"tags":    []any{"go"},
		"authors": []any{"The Go Authors"},
	}
}

// --- Submit ---

func TestSubmitSucceeds(t *testing.T) {
	u := &fakeUploader{resp: backend.UploadResponse{Success: true}}
	rec := &fakeRecorder{}
	s := New(u, rec, zap.NewNop())

	o := s.Submit(context.Background(), validPayload())
	assert.True(t, o.Succeeded)
	assert.Equal(t, KindNone, o.Kind)
	assert.NoError(t, o.Err)
	require.Len(t, u.calls, 1)
	assert.Equal(t, "https://go.dev/doc/effective_go", u.calls[0].URL)
	require.Len(t, rec.outcomes, 1)
	assert.True(t, rec.outcomes[0].Succeeded)
}

func TestSubmitValidationNeverReachesNetwork(t *testing.T) {
	u := &fakeUploader{resp: backend.UploadResponse{Success: true}}
	rec := &fakeRecorder{}
	s := New(u, rec, zap.NewNop())

	p := validPayload()
	p["tags"] = "not-an-array"
	o := s.Submit(context.Background(), p)

	assert.False(t, o.Succeeded)
	assert.Equal(t, KindValidation, o.Kind)
	assert.Equal(t, validate.ReasonSchemaMismatch, o.Reason)
	assert.ErrorIs(t, o.Err, validate.ErrSchemaMismatch)
	assert.Empty(t, u.calls)
	assert.Empty(t, rec.outcomes)
}

func TestSubmitTransportFailure(t *testing.T) {
	u := &fakeUploader{err: &backend.Error{Op: "upload", StatusCode: 502}}
	s := New(u, nil, zap.NewNop())

	o := s.Submit(context.Background(), validPayload())
	assert.False(t, o.Succeeded)
	assert.Equal(t, KindTransport, o.Kind)
	assert.ErrorIs(t, o.Err, backend.ErrTransport)
	assert.Contains(t, o.Reason, "HTTP 502")
	assert.Len(t, u.calls, 1)
}

func TestSubmitRejected(t *testing.T) {
	tests := []struct {
		name   string
		resp   backend.UploadResponse
		reason string
	}{
		{"explicit false", backend.UploadResponse{Success: false, Message: "duplicate"}, "upload rejected: duplicate"},
		{"no marker", backend.UploadResponse{}, "upload rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &fakeUploader{resp: tt.resp}
			o := New(u, nil, zap.NewNop()).Submit(context.Background(), validPayload())
			assert.False(t, o.Succeeded)
			assert.Equal(t, KindRejected, o.Kind)
			assert.Equal(t, tt.reason, o.Reason)
			assert.ErrorIs(t, o.Err, ErrRejected)
			assert.Len(t, u.calls, 1)
		})
	}
}

func TestSubmitRecorderErrorDoesNotChangeOutcome(t *testing.T) {
	u := &fakeUploader{resp: backend.UploadResponse{Success: true}}
	rec := &fakeRecorder{err: errors.New("disk full")}
	o := New(u, rec, zap.NewNop()).Submit(context.Background(), validPayload())
	assert.True(t, o.Succeeded)
}

// --- SubmitFile ---

func TestSubmitFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("title: t\ntext: x\nurl: https://a\ntags: []\nauthors: [A]\n"), 0o644))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"title": `), 0o644))

	u := &fakeUploader{resp: backend.UploadResponse{Success: true}}
	s := New(u, nil, zap.NewNop())

	o := s.SubmitFile(context.Background(), good)
	assert.True(t, o.Succeeded)
	assert.Equal(t, good, o.Source)

	o = s.SubmitFile(context.Background(), broken)
	assert.Equal(t, KindValidation, o.Kind)
	assert.Equal(t, validate.ReasonParse, o.Reason)

	o = s.SubmitFile(context.Background(), filepath.Join(dir, "missing.json"))
	assert.Equal(t, KindValidation, o.Kind)
	assert.Contains(t, o.Reason, "reading document")

	assert.Len(t, u.calls, 1)
}
