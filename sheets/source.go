/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package sheets loads vitals datasets from a spreadsheet-backed source: a
// Google Sheets CSV export URL or an XLSX workbook export. It owns all
// fetching, normalization, and caching; the vitals core only ever sees a
// fully-materialized dataset.
package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/humaidq/vitalwave/logging"
	"github.com/humaidq/vitalwave/vitals"
)

var logger = logging.Logger(logging.SourceSheets)

// DefaultCacheTTL is how long a fetched dataset is reused before the next
// Dataset call re-fetches the source.
const DefaultCacheTTL = 5 * time.Minute

// Source fetches and caches a dataset from one spreadsheet URL. Every call
// hands out an immutable snapshot; a refresh replaces the cached dataset
// rather than mutating it, so concurrent readers never observe partial
// state.
type Source struct {
	url    string
	loc    *time.Location
	ttl    time.Duration
	client *resty.Client

	mu        sync.Mutex
	cached    vitals.Dataset
	fetchedAt time.Time
}

// NewSource creates a source for the given spreadsheet export URL.
// Timestamps in the sheet are interpreted in loc. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewSource(url string, loc *time.Location, ttl time.Duration) *Source {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Source{
		url:    url,
		loc:    loc,
		ttl:    ttl,
		client: client,
	}
}

// URL returns the spreadsheet export URL this source fetches.
func (s *Source) URL() string {
	return s.url
}

// Dataset returns the cached dataset, re-fetching the source when the cache
// has expired. The returned dataset must be treated as read-only.
func (s *Source) Dataset(ctx context.Context) (vitals.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// fetchedAt, not the dataset itself, signals a populated cache: an
	// empty sheet legitimately parses to a nil dataset.
	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	dataset, err := s.fetchLocked(ctx)
	if err != nil {
		if !s.fetchedAt.IsZero() {
			// Serve the stale dataset rather than blanking the dashboard
			// on a transient fetch failure.
			logger.Warn("Refresh failed, serving stale dataset", "error", err)
			return s.cached, nil
		}
		return nil, err
	}

	return dataset, nil
}

// Refresh discards the cache and re-fetches the source.
func (s *Source) Refresh(ctx context.Context) (vitals.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchLocked(ctx)
}

// fetchLocked fetches and normalizes the sheet. Callers must hold s.mu. On
// failure the previous cache is left untouched.
func (s *Source) fetchLocked(ctx context.Context) (vitals.Dataset, error) {
	start := time.Now()

	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("spreadsheet fetch returned status %d", resp.StatusCode())
	}

	dataset, err := Parse(resp.Body(), s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}

	s.cached = dataset
	s.fetchedAt = time.Now()

	logger.Info("fetched dataset",
		"readings", len(dataset),
		"duration_ms", time.Since(start).Milliseconds())

	return dataset, nil
}
