// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Status is the lifecycle state of a search session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSearching Status = "searching"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

func (s Status) String() string { return string(s) }

// SearchSession is the state of one user's search: the current query, the
// server page on display, its results, and any spelling corrections. It is
// owned by a single controller and mutated only through its operations.
type SearchSession struct {
	// Query is the last submitted, trimmed query. Empty when Idle.
	Query string `json:"query" yaml:"query"`

	// Page is the 1-based server page the Results came from.
	Page int `json:"page" yaml:"page"`

	// PerPage is the page size requested from the backend.
	PerPage int `json:"per_page" yaml:"per_page"`

	// TotalResults is the backend's count of matches across all pages.
	TotalResults int `json:"total_results" yaml:"total_results"`

	// Results holds the sanitized records of Page.
	Results []Article `json:"results" yaml:"results"`

	// Corrections lists the spelling fixes the backend applied to Query.
	Corrections []CorrectionPair `json:"corrections" yaml:"corrections"`

	Status Status `json:"status" yaml:"status"`

	// LastError is the message of the most recent failure; empty when unset.
	LastError string `json:"last_error,omitempty" yaml:"last_error,omitempty"`

	// UsedOriginal reports whether Query was sent with corrections disabled.
	UsedOriginal bool `json:"used_original" yaml:"used_original"`
}

// TotalPages returns the number of server pages for TotalResults.
func (s SearchSession) TotalPages() int {
	if s.PerPage <= 0 || s.TotalResults <= 0 {
		return 0
	}
	return (s.TotalResults + s.PerPage - 1) / s.PerPage
}

// Clone returns a deep copy of s.
func (s SearchSession) Clone() SearchSession {
	c := s
	if s.Results != nil {
		c.Results = make([]Article, len(s.Results))
		for i, a := range s.Results {
			c.Results[i] = a.Clone()
		}
	}
	c.Corrections = append([]CorrectionPair(nil), s.Corrections...)
	return c
}
