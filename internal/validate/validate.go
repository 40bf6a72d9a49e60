// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks user-supplied documents against the Article schema
// before they are uploaded. Validation is structural only: the field types
// must match what the backend accepts, nothing more.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/glooble/pkg/types"
)

const (
	ReasonSchemaMismatch = "schema mismatch"
	ReasonParse          = "parse error"
)

var (
	// ErrSchemaMismatch matches any Error caused by a field of the wrong shape.
	ErrSchemaMismatch = errors.New(ReasonSchemaMismatch)

	// ErrParse matches any Error caused by input that is not structured data.
	ErrParse = errors.New(ReasonParse)
)

// Error is the validation failure returned by Validate and Parse. Reason is
// one of ReasonSchemaMismatch or ReasonParse; Detail says what was wrong.
type Error struct {
	Reason string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Detail
}

// Is lets errors.Is match an Error against ErrSchemaMismatch or ErrParse.
func (e *Error) Is(target error) bool {
	return (target == ErrSchemaMismatch && e.Reason == ReasonSchemaMismatch) ||
		(target == ErrParse && e.Reason == ReasonParse)
}

func mismatch(format string, args ...any) error {
	return &Error{Reason: ReasonSchemaMismatch, Detail: fmt.Sprintf(format, args...)}
}

// Format selects the document encoding accepted by Parse.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Validate checks that payload is an object whose title, text and url are
// strings and whose tags and authors are arrays of strings. Other fields are
// ignored. The returned Article never carries a score.
func Validate(payload any) (types.Article, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return types.Article{}, mismatch("document is %s, want object", kind(payload))
	}

	var a types.Article
	var err error
	if a.Title, err = stringField(obj, "title"); err != nil {
		return types.Article{}, err
	}
	if a.Text, err = stringField(obj, "text"); err != nil {
		return types.Article{}, err
	}
	if a.URL, err = stringField(obj, "url"); err != nil {
		return types.Article{}, err
	}
	if a.Tags, err = stringsField(obj, "tags"); err != nil {
		return types.Article{}, err
	}
	if a.Authors, err = stringsField(obj, "authors"); err != nil {
		return types.Article{}, err
	}
	return a, nil
}

// Parse decodes data in the given format and validates the result. Input
// that cannot be decoded fails with ReasonParse, distinct from a document
// that decodes but has the wrong shape.
func Parse(data []byte, format Format) (types.Article, error) {
	var payload any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return types.Article{}, &Error{Reason: ReasonParse, Detail: err.Error()}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return types.Article{}, &Error{Reason: ReasonParse, Detail: err.Error()}
		}
		if dec.More() {
			return types.Article{}, &Error{Reason: ReasonParse, Detail: "trailing data after document"}
		}
	}
	return Validate(payload)
}

// ParseFile reads path and parses it in the format its extension implies.
func ParseFile(path string) (types.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Article{}, fmt.Errorf("reading document %s: %w", path, err)
	}
	return Parse(data, FormatForPath(path))
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", mismatch("missing %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch("%q is %s, want string", key, kind(v))
	}
	return s, nil
}

func stringsField(obj map[string]any, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok {
		return nil, mismatch("missing %q", key)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, mismatch("%q is %s, want array", key, kind(v))
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, mismatch("%q[%d] is %s, want string", key, i, kind(item))
		}
		out[i] = s
	}
	return out, nil
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
