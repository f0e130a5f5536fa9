package client

import (
	"context"
	"sync"
	"time"
)

const DefaultSearchDebounce = 500 * time.Millisecond

// BrowseResult is delivered for the latest issued fetch only.
type BrowseResult struct {
	Query ListQuery
	Page  *LeadPage
	Err   error
}

// RequestsBrowser drives the paginated lead list. Search input is debounced
// and resets to page 1; results are delivered last-request-wins by sequence
// number, never by arrival order.
type RequestsBrowser struct {
	requests *RequestsClient
	onResult func(BrowseResult)
	debounce time.Duration

	// deliverMu serializes the latest-check with onResult so a stale
	// result cannot land after a newer one.
	deliverMu sync.Mutex

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	query   ListQuery
	seq     uint64
	timer   *time.Timer
	pending string
}

func NewRequestsBrowser(requests *RequestsClient, limit int, debounce time.Duration, onResult func(BrowseResult)) *RequestsBrowser {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RequestsBrowser{
		requests: requests,
		onResult: onResult,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		query:    ListQuery{Page: 1, Limit: limit}.normalize(),
	}
}

func (b *RequestsBrowser) Query() ListQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// SetSearch schedules a search after the debounce window. Each call
// restarts the window.
func (b *RequestsBrowser) SetSearch(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = term
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.applySearch)
}

func (b *RequestsBrowser) applySearch() {
	b.mu.Lock()
	b.timer = nil
	b.query.Search = b.pending
	b.query.Page = 1
	b.query = b.query.normalize()
	b.mu.Unlock()
	b.fetch(false)
}

// SetPage fetches page n of the current search immediately.
func (b *RequestsBrowser) SetPage(n int) {
	b.mu.Lock()
	b.query.Page = n
	b.query = b.query.normalize()
	b.mu.Unlock()
	b.fetch(false)
}

// Refresh re-issues the current query against the server, e.g. after a
// mutation or as the retry affordance for a failed fetch.
func (b *RequestsBrowser) Refresh() {
	b.fetch(true)
}

func (b *RequestsBrowser) fetch(reload bool) {
	b.mu.Lock()
	b.seq++
	seq, q := b.seq, b.query
	b.mu.Unlock()

	list := b.requests.List
	if reload {
		list = b.requests.Reload
	}

	go func() {
		page, err := list(b.ctx, q)

		b.deliverMu.Lock()
		defer b.deliverMu.Unlock()

		b.mu.Lock()
		latest := seq == b.seq
		b.mu.Unlock()
		if !latest || b.ctx.Err() != nil {
			return
		}
		b.onResult(BrowseResult{Query: q, Page: page, Err: err})
	}()
}

// Close stops pending searches and drops in-flight results.
func (b *RequestsBrowser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.cancel()
}
