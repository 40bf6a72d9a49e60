// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the glooble search client:
// the Article record exchanged with the backend, spelling corrections, the
// search session owned by the controller, and client configuration.
package types

import (
	"encoding/json"
	"fmt"
)

// Article is a search result or an uploadable document. URL is the key of a
// record within a result page; records without one are not renderable.
type Article struct {
	// URL locates the original document.
	URL string `json:"url" yaml:"url"`

	// Title is the document title. The sanitizer derives one from the URL
	// host when it is blank.
	Title string `json:"title" yaml:"title"`

	// Text is the document body, or a preview of it after sanitizing.
	Text string `json:"text" yaml:"text"`

	// Tags lists free-form topic labels.
	Tags []string `json:"tags" yaml:"tags"`

	// Authors lists the document authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Score is the backend relevance score, when the backend reports one.
	// It is never sent on upload.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// Clone returns a deep copy of a.
func (a Article) Clone() Article {
	c := a
	c.Tags = append([]string(nil), a.Tags...)
	c.Authors = append([]string(nil), a.Authors...)
	if a.Score != nil {
		s := *a.Score
		c.Score = &s
	}
	return c
}

// CorrectionPair is a backend-suggested spelling fix for one query term.
// On the wire it is a two-element array: ["reactt", "react"].
type CorrectionPair struct {
	Original  string `yaml:"original"`
	Corrected string `yaml:"corrected"`
}

// MarshalJSON encodes the pair as a two-element array.
func (p CorrectionPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Original, p.Corrected})
}

// UnmarshalJSON decodes a two-element array of strings. Any other shape is
// rejected rather than padded or truncated.
func (p *CorrectionPair) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("correction pair: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("correction pair: want 2 elements, got %d", len(parts))
	}
	p.Original, p.Corrected = parts[0], parts[1]
	return nil
}
