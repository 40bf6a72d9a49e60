// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package devserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/glooble/internal/validate"
	"github.com/pdiddy/glooble/pkg/types"
)

const maxRequestBytes = 1 << 20

type queryRequest struct {
	Query       string `json:"query"`
	UseOriginal bool   `json:"useOriginal"`
	Page        int    `json:"page"`
	PerPage     int    `json:"per_page"`
}

type queryResponse struct {
	Results      []types.Article        `json:"results"`
	Corrections  []types.CorrectionPair `json:"corrections,omitempty"`
	TotalResults int                    `json:"total_results"`
}

// cachedQuery is a query outcome kept in the response cache.
type cachedQuery struct {
	status int
	body   any
}

type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = types.DefaultPerPage
	}

	terms := Tokenize(req.Query)
	if len(terms) == 0 {
		s.respondError(w, http.StatusBadRequest, "empty query")
		return
	}

	key := fmt.Sprintf("%d|%t|%d|%d|%s",
		s.corpus.Version(), req.UseOriginal, req.Page, req.PerPage, strings.Join(terms, " "))
	if hit, ok := s.queries.Get(key); ok {
		cq := hit.(cachedQuery)
		s.logger.Debug("query cache hit", zap.String("key", key))
		s.respondJSON(w, cq.status, cq.body)
		return
	}
	cq := s.runQuery(req, terms)
	s.queries.SetDefault(key, cq)
	s.respondJSON(w, cq.status, cq.body)
}

// runQuery corrects, matches, and pages one query.
func (s *Server) runQuery(req queryRequest, terms []string) cachedQuery {
	var corrections []types.CorrectionPair
	if !req.UseOriginal {
		for i, term := range terms {
			if s.corpus.Has(term) {
				continue
			}
			if fixed, ok := s.corpus.Suggest(term, s.cfg.MaxEditDistance); ok {
				corrections = append(corrections, types.CorrectionPair{Original: term, Corrected: fixed})
				terms[i] = fixed
			}
		}
	}

	matches := s.corpus.Match(terms)
	s.logger.Debug("query",
		zap.String("query", req.Query),
		zap.Strings("terms", terms),
		zap.Bool("use_original", req.UseOriginal),
		zap.Int("matches", len(matches)))
	if len(matches) == 0 {
		return cachedQuery{status: http.StatusNotFound, body: map[string]string{"error": "no results"}}
	}

	return cachedQuery{status: http.StatusOK, body: queryResponse{
		Results:      pageOf(matches, req.Page, req.PerPage),
		Corrections:  corrections,
		TotalResults: len(matches),
	}}
}

// pageOf returns the 1-based page of matches, empty past the end. page and
// perPage must be at least 1; the bound is checked before multiplying so
// large pages cannot overflow.
func pageOf(matches []types.Article, page, perPage int) []types.Article {
	if len(matches) == 0 || page-1 > (len(matches)-1)/perPage {
		return []types.Article{}
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(matches))
	return matches[start:end]
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, uploadResponse{Message: "unreadable body"})
		return
	}
	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		s.respondJSON(w, http.StatusBadRequest, uploadResponse{Message: "invalid JSON"})
		return
	}
	article, err := validate.Validate(payload)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, uploadResponse{Message: err.Error()})
		return
	}

	if err := s.corpus.Add(article); err != nil {
		if errors.Is(err, ErrDuplicate) {
			s.respondJSON(w, http.StatusOK, uploadResponse{Message: err.Error()})
			return
		}
		s.logger.Error("adding document failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, uploadResponse{Message: err.Error()})
		return
	}
	s.queries.Flush()
	s.logger.Info("document added", zap.String("url", article.URL))
	s.respondJSON(w, http.StatusOK, uploadResponse{Success: true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "documents": s.corpus.Len()})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
