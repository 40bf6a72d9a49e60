// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session implements the search session controller: the state
// machine that submits queries, retries with the user's original spelling,
// and fetches further server pages, keeping the displayed page and its
// results consistent throughout.
//
// Every operation performs its pre-request transition under the controller
// lock before any network call, and every request carries a sequence number.
// A response is applied only if its number is still the latest issued, so a
// slow, stale response can never overwrite newer state.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/internal/logging"
	"github.com/pdiddy/glooble/internal/pagination"
	"github.com/pdiddy/glooble/internal/sanitize"
	"github.com/pdiddy/glooble/pkg/types"
)

var (
	// ErrSuperseded is returned when a response arrives after a newer
	// request was issued; the response is discarded.
	ErrSuperseded = errors.New("response superseded by a newer request")

	// ErrPageOutOfRange is returned by ChangePage for a page outside
	// [1, TotalPages]. The session is left untouched.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Backend issues /query requests. *backend.Client implements it.
type Backend interface {
	Query(ctx context.Context, req backend.QueryRequest) (backend.QueryResponse, error)
}

// Controller owns one SearchSession.
type Controller struct {
	backend Backend
	perPage int
	logger  *zap.Logger
	id      string

	mu    sync.Mutex
	state types.SearchSession
	seq   uint64
}

// New returns an Idle controller that queries b with cfg.PerPage results per page.
func New(b Backend, cfg types.ClientConfig, logger *zap.Logger) *Controller {
	cfg = cfg.WithDefaults()
	c := &Controller{
		backend: b,
		perPage: cfg.PerPage,
		id:      uuid.NewString(),
	}
	c.logger = logging.OrNop(logger).With(zap.String("session", c.id))
	c.state = c.idle()
	return c
}

// ID returns the session identifier used in log lines.
func (c *Controller) ID() string { return c.id }

func (c *Controller) idle() types.SearchSession {
	return types.SearchSession{
		Page:    1,
		PerPage: c.perPage,
		Results: []types.Article{},
		Status:  types.StatusIdle,
	}
}

// SubmitQuery starts a new search for query. A blank query resets the
// session to Idle locally without a request. With useOriginal the backend is
// asked not to correct spelling, and no corrections are kept.
//
// The returned error mirrors the failure recorded in the session; a nil
// error means the response was applied or no request was needed.
func (c *Controller) SubmitQuery(ctx context.Context, query string, useOriginal bool) error {
	q := strings.TrimSpace(query)

	c.mu.Lock()
	c.seq++
	if q == "" {
		c.state = c.idle()
		c.mu.Unlock()
		c.logger.Debug("session reset")
		return nil
	}
	seq := c.seq
	c.state.Status = types.StatusSearching
	c.state.Query = q
	c.state.UsedOriginal = useOriginal
	c.state.Page = 1
	c.state.LastError = ""
	c.state.Results = []types.Article{}
	c.state.TotalResults = 0
	c.state.Corrections = nil
	c.mu.Unlock()

	req := backend.QueryRequest{Query: q, UseOriginal: useOriginal, Page: 1, PerPage: c.perPage}
	c.logger.Debug("query issued",
		zap.Uint64("seq", seq), zap.String("query", q), zap.Bool("use_original", useOriginal))
	resp, err := c.backend.Query(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.logger.Debug("stale query response discarded", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return ErrSuperseded
	}

	if err != nil {
		c.state.Status = types.StatusFailed
		c.state.LastError = err.Error()
		c.logger.Warn("query failed", zap.Uint64("seq", seq), zap.String("query", q), zap.Error(err))
		return fmt.Errorf("searching %q: %w", q, err)
	}

	c.state.Status = types.StatusSucceeded
	if resp.NotFound {
		c.logger.Info("query found nothing", zap.Uint64("seq", seq), zap.String("query", q))
		return nil
	}
	c.state.Results = sanitize.Records(resp.Results)
	c.state.TotalResults = resp.TotalResults
	if !useOriginal && len(resp.Corrections) > 0 {
		c.state.Corrections = append([]types.CorrectionPair(nil), resp.Corrections...)
	}
	c.logger.Info("query applied",
		zap.Uint64("seq", seq),
		zap.String("query", q),
		zap.Int("results", len(c.state.Results)),
		zap.Int("total", c.state.TotalResults),
		zap.Int("corrections", len(c.state.Corrections)))
	return nil
}

// ChangePage fetches server page newPage of the current query, reusing the
// query and correction choice already resolved. It is a no-op when the
// session is Idle or already on newPage. On failure the session keeps the
// page and results it had, so the two always agree.
func (c *Controller) ChangePage(ctx context.Context, newPage int) error {
	c.mu.Lock()
	if c.state.Status == types.StatusIdle || c.state.Query == "" || newPage == c.state.Page {
		c.mu.Unlock()
		return nil
	}
	if total := c.state.TotalPages(); newPage < 1 || (total > 0 && newPage > total) {
		c.mu.Unlock()
		return fmt.Errorf("page %d: %w", newPage, ErrPageOutOfRange)
	}
	c.seq++
	seq := c.seq
	c.state.Status = types.StatusSearching
	c.state.LastError = ""
	req := backend.QueryRequest{
		Query:       c.state.Query,
		UseOriginal: c.state.UsedOriginal,
		Page:        newPage,
		PerPage:     c.perPage,
	}
	c.mu.Unlock()

	c.logger.Debug("page issued", zap.Uint64("seq", seq), zap.String("query", req.Query), zap.Int("page", newPage))
	resp, err := c.backend.Query(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.logger.Debug("stale page response discarded", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return ErrSuperseded
	}

	if err != nil {
		c.state.Status = types.StatusFailed
		c.state.LastError = err.Error()
		c.logger.Warn("page failed", zap.Uint64("seq", seq), zap.Int("page", newPage), zap.Error(err))
		return fmt.Errorf("fetching page %d of %q: %w", newPage, req.Query, err)
	}

	c.state.Status = types.StatusSucceeded
	c.state.Page = newPage
	if resp.NotFound {
		c.state.Results = []types.Article{}
		c.logger.Info("page found nothing", zap.Uint64("seq", seq), zap.Int("page", newPage))
		return nil
	}
	c.state.Results = sanitize.Records(resp.Results)
	c.state.TotalResults = resp.TotalResults
	c.logger.Info("page applied",
		zap.Uint64("seq", seq), zap.Int("page", newPage), zap.Int("results", len(c.state.Results)))
	return nil
}

// UseOriginalQuery repeats the current query with spelling correction
// disabled. It is a no-op unless the session holds corrections.
func (c *Controller) UseOriginalQuery(ctx context.Context) error {
	c.mu.Lock()
	q := c.state.Query
	ok := q != "" && len(c.state.Corrections) > 0
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.SubmitQuery(ctx, q, true)
}

// Session returns a snapshot of the session state.
func (c *Controller) Session() types.SearchSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// View is a session snapshot together with its derived pagination.
type View struct {
	types.SearchSession
	Pages  int
	Window []pagination.Label
}

// View returns the current snapshot with its pagination window.
func (c *Controller) View() View {
	s := c.Session()
	total := pagination.TotalPages(s.TotalResults, s.PerPage)
	return View{
		SearchSession: s,
		Pages:         total,
		Window:        pagination.Window(s.Page, total),
	}
}
