package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/jonathan/rulebook-agent/internal/fetch"
	"github.com/jonathan/rulebook-agent/internal/runstate"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// DefaultBatchSize bounds how many new entries one run may process. One at a
// time keeps per-run latency predictable and limits the blast radius of a bad
// document.
const DefaultBatchSize = 1

// Lister fetches the upstream catalog and diffs it against the watermark.
type Lister struct {
	listingURL string
	htmlURL    string // optional HTML listing fallback, same upstream
	batchSize  int
	store      runstate.Store
	opts       *fetch.Options
}

// NewLister creates a Lister. htmlURL may be empty to disable the HTML
// fallback; batchSize <= 0 selects DefaultBatchSize.
func NewLister(listingURL, htmlURL string, batchSize int, store runstate.Store, opts *fetch.Options) *Lister {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Lister{
		listingURL: listingURL,
		htmlURL:    htmlURL,
		batchSize:  batchSize,
		store:      store,
		opts:       opts,
	}
}

// NewEntries returns the batch of catalog entries newer than the watermark,
// oldest-first, capped at the configured batch size.
//
// On a first run (no watermark) it seeds the watermark to the newest entry's
// id and returns ErrBootstrap without offering any entries, so an initial
// deploy never floods the downstream system with the full archive.
func (l *Lister) NewEntries(ctx context.Context) ([]types.SourceEntry, error) {
	entries, err := l.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &FetchError{Message: "catalog is empty"}
	}

	watermark, ok, err := l.store.Get(runstate.KeyLastID)
	if err != nil {
		return nil, &FetchError{Message: "failed to read watermark", Cause: err}
	}

	if !ok {
		newest := strconv.FormatInt(entries[0].ID, 10)
		if err := l.store.Set(runstate.KeyLastID, newest, 0); err != nil {
			return nil, &FetchError{Message: "failed to seed watermark", Cause: err}
		}
		return nil, ErrBootstrap
	}

	lastID, err := strconv.ParseInt(watermark, 10, 64)
	if err != nil {
		return nil, &FetchError{Message: "corrupt watermark value", Cause: err}
	}

	// Catalog is newest-first: collect everything above the watermark, then
	// reverse so processing proceeds oldest-first.
	var fresh []types.SourceEntry
	for _, entry := range entries {
		if entry.ID == lastID {
			break
		}
		fresh = append(fresh, entry)
	}
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}

	if len(fresh) > l.batchSize {
		fresh = fresh[:l.batchSize]
	}
	return fresh, nil
}

// fetchCatalog retrieves the JSON listing, falling back to the HTML listing
// page when configured and the JSON endpoint is unavailable.
func (l *Lister) fetchCatalog(ctx context.Context) ([]types.SourceEntry, error) {
	var entries []types.SourceEntry
	err := fetch.GetJSON(ctx, l.listingURL, &entries, l.opts)
	if err == nil {
		return entries, nil
	}

	var timeoutErr *fetch.TimeoutError
	if errors.As(err, &timeoutErr) {
		return nil, err
	}

	if l.htmlURL != "" {
		body, htmlErr := fetch.Get(ctx, l.htmlURL, l.opts)
		if htmlErr == nil {
			if parsed, parseErr := ParseHTMLListing(string(body)); parseErr == nil {
				return parsed, nil
			}
		}
	}

	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return nil, &FetchError{
			Message:    "listing endpoint unreachable",
			StatusCode: fetchErr.StatusCode,
			Cause:      err,
		}
	}
	return nil, &FetchError{Message: "listing endpoint unreachable", Cause: err}
}
