// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upload validates documents and submits them to the backend index.
// A document that fails validation never reaches the network; one that
// passes is sent in exactly one request.
package upload

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/internal/logging"
	"github.com/pdiddy/glooble/internal/validate"
	"github.com/pdiddy/glooble/pkg/types"
)

// ErrRejected is the cause recorded when the backend answered but did not
// confirm the upload.
var ErrRejected = errors.New("upload rejected")

// Uploader issues /upload requests. *backend.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, a types.Article) (backend.UploadResponse, error)
}

// Recorder keeps a record of upload outcomes. *journal.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, o Outcome, at time.Time) error
}

// FailureKind classifies a failed upload.
type FailureKind string

const (
	KindNone       FailureKind = ""
	KindValidation FailureKind = "validation"
	KindTransport  FailureKind = "transport"
	KindRejected   FailureKind = "rejected"
)

// Outcome is the result of one upload attempt. Article is set whenever the
// document passed validation.
type Outcome struct {
	Succeeded bool
	Kind      FailureKind
	Reason    string
	Article   types.Article
	Source    string
	Err       error
}

// Submitter runs validation then upload.
type Submitter struct {
	uploader Uploader
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a Submitter. rec may be nil to skip recording.
func New(u Uploader, rec Recorder, logger *zap.Logger) *Submitter {
	return &Submitter{
		uploader: u,
		recorder: rec,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// Submit validates payload, a decoded document, and uploads it.
func (s *Submitter) Submit(ctx context.Context, payload any) Outcome {
	a, err := validate.Validate(payload)
	return s.finish(ctx, "", a, err)
}

// SubmitFile parses the JSON or YAML document at path and uploads it.
func (s *Submitter) SubmitFile(ctx context.Context, path string) Outcome {
	a, err := validate.ParseFile(path)
	return s.finish(ctx, path, a, err)
}

func (s *Submitter) finish(ctx context.Context, source string, a types.Article, verr error) Outcome {
	if verr != nil {
		o := Outcome{Kind: KindValidation, Reason: reason(verr), Source: source, Err: verr}
		s.logger.Warn("document invalid", zap.String("source", source), zap.Error(verr))
		return o
	}

	o := s.send(ctx, a)
	o.Source = source
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, o, s.now()); err != nil {
			s.logger.Warn("recording upload failed", zap.String("url", a.URL), zap.Error(err))
		}
	}
	return o
}

func (s *Submitter) send(ctx context.Context, a types.Article) Outcome {
	o := Outcome{Article: a}

	resp, err := s.uploader.Upload(ctx, a)
	if err != nil {
		o.Kind = KindTransport
		o.Reason = err.Error()
		o.Err = err
		s.logger.Warn("upload failed", zap.String("url", a.URL), zap.Error(err))
		return o
	}
	if !resp.Success {
		o.Kind = KindRejected
		o.Reason = ErrRejected.Error()
		if resp.Message != "" {
			o.Reason += ": " + resp.Message
		}
		o.Err = ErrRejected
		s.logger.Warn("upload rejected", zap.String("url", a.URL), zap.String("message", resp.Message))
		return o
	}

	o.Succeeded = true
	s.logger.Info("upload confirmed", zap.String("url", a.URL), zap.String("title", a.Title))
	return o
}

// reason returns the short validation reason, or the error text for
// failures that are not validation errors (e.g. an unreadable file).
func reason(err error) string {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
