// Package services implements the caller-side policies that tie the session
// manager, the remote API, and the snapshot cache together.
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/okabrera/medbill/core"
)

// DataSource says where a dashboard view's records came from.
type DataSource string

const (
	SourceFresh  DataSource = "fresh"
	SourceCached DataSource = "cached"
	SourceEmpty  DataSource = "empty"
)

// DashboardView is a display-ready snapshot: the records, their aggregates,
// and formatted currency strings. Stale marks the non-fatal
// "showing cached data" condition.
type DashboardView struct {
	Records   []core.Invoice
	Metrics   core.Metrics
	Formatted core.FormattedMetrics
	Source    DataSource
	FetchedAt time.Time
	Stale     bool
}

// DashboardService drives the refresh protocol for the invoice-backed
// surfaces (invoice list and dashboard):
//
//  1. Unless forced, serve the cache first for an instant, possibly stale
//     view (Cached).
//  2. Fetch under the current credential (Refresh).
//  3. On success, write through to the cache and return fresh metrics.
//  4. On failure, fall back to the cache with the stale marker; with no
//     cache, surface the fatal fetch error.
//  5. 401/403 is never folded into the generic path: the session is
//     invalidated and ErrUnauthorized comes back distinctly.
type DashboardService struct {
	api     core.BillingAPI
	cache   core.SnapshotCache
	session *core.SessionManager
	symbol  string
}

func NewDashboardService(api core.BillingAPI, cache core.SnapshotCache, session *core.SessionManager, symbol string) *DashboardService {
	if symbol == "" {
		symbol = "$"
	}
	return &DashboardService{api: api, cache: cache, session: session, symbol: symbol}
}

// Cached returns a view built from the snapshot cache, or ErrCacheNotFound.
// Surfaces call it on mount for instant display before a Refresh settles.
func (s *DashboardService) Cached(ctx context.Context) (*DashboardView, error) {
	records, fetchedAt, err := s.cache.Read(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(records, SourceCached, fetchedAt, true), nil
}

// Refresh fetches the record collection and returns the settled view.
//
// Returned errors: core.ErrNotAuthenticated without a session,
// core.ErrUnauthorized after a credential rejection (session already
// invalidated), core.ErrFetchFailed when the fetch failed and no usable
// cache exists. A fetch failure with a live cache is not an error - the
// view comes back with Stale set.
func (s *DashboardService) Refresh(ctx context.Context, force bool) (*DashboardView, error) {
	token, ok := s.session.AccessToken()
	if !ok {
		return nil, core.ErrNotAuthenticated
	}

	records, err := s.api.ListInvoices(ctx, token)
	if err == nil {
		if werr := s.cache.Write(ctx, records); werr != nil {
			log.Printf("medbill: write invoice snapshot: %v", werr)
		}
		return s.view(records, SourceFresh, time.Now(), false), nil
	}

	if errors.Is(err, core.ErrUnauthorized) {
		s.session.Invalidate(ctx)
		return nil, core.ErrUnauthorized
	}

	// Generic failure: a still-valid snapshot beats an empty screen. The
	// re-read also covers the forced-refresh case where step 1 was skipped.
	if cached, fetchedAt, cerr := s.cache.Read(ctx); cerr == nil {
		return s.view(cached, SourceCached, fetchedAt, true), nil
	}

	return nil, err
}

func (s *DashboardService) view(records []core.Invoice, source DataSource, fetchedAt time.Time, stale bool) *DashboardView {
	metrics := core.ComputeMetrics(records)
	return &DashboardView{
		Records:   records,
		Metrics:   metrics,
		Formatted: core.FormatMetrics(metrics, s.symbol),
		Source:    source,
		FetchedAt: fetchedAt,
		Stale:     stale,
	}
}

// EmptyView is the all-zero fallback a surface renders alongside the fatal
// "unable to load" notice when Refresh failed with no cache.
func (s *DashboardService) EmptyView() *DashboardView {
	return s.view(nil, SourceEmpty, time.Time{}, false)
}
