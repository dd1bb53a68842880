package feed

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/svera/snapgram/internal/result"
	"golang.org/x/sync/singleflight"
)

// ErrStale is returned when a fetched page is discarded because the state
// it was requested for is no longer current
var ErrStale = errors.New("stale page discarded")

// FetchFunc loads the page following cursor. An empty cursor asks for the first page.
type FetchFunc[T any] func(ctx context.Context, cursor string) (result.Page[T], error)

// Pager accumulates the pages of a cursor paginated listing. Concurrent
// requests for the same cursor share a single fetch.
type Pager[T any] struct {
	fetch FetchFunc[T]
	group singleflight.Group

	mu     sync.Mutex
	pages  result.Pages[T]
	loaded bool
	err    error
	// epoch changes on every Reset
	epoch uint64
}

func NewPager[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// HasNextPage reports whether more pages may exist: either nothing has been
// loaded yet or the last page fetched was not empty
func (p *Pager[T]) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNextPage()
}

func (p *Pager[T]) hasNextPage() bool {
	last, ok := p.pages.Last()
	return !ok || !last.Empty()
}

// Loaded reports whether at least one page has been fetched successfully
func (p *Pager[T]) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Pages returns a snapshot of the pages fetched so far
func (p *Pager[T]) Pages() result.Pages[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	pages := make(result.Pages[T], len(p.pages))
	copy(pages, p.pages)
	return pages
}

// Err returns the failure of the last fetch, or nil if it succeeded
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// FetchNextPage fetches the page following the last one and appends it.
// It does nothing when the last page was empty. accept, if not nil, is
// checked once the page arrives; returning false discards the page and
// makes FetchNextPage return ErrStale. A failed fetch leaves the pages
// untouched, so the same cursor is requested again next time.
func (p *Pager[T]) FetchNextPage(ctx context.Context, accept func() bool) error {
	p.mu.Lock()
	if !p.hasNextPage() {
		p.mu.Unlock()
		return nil
	}
	issued, epoch := len(p.pages), p.epoch
	cursor := ""
	if last, ok := p.pages.Last(); ok {
		cursor = last.NextCursor()
	}
	p.mu.Unlock()

	v, err, _ := p.group.Do(strconv.FormatUint(epoch, 10)+"/"+cursor, func() (any, error) {
		return p.fetch(ctx, cursor)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		return ErrStale
	}
	if err != nil {
		p.err = err
		return err
	}
	// a caller sharing the same fetch appended it already
	if len(p.pages) != issued {
		return nil
	}
	if accept != nil && !accept() {
		return ErrStale
	}
	p.pages = append(p.pages, v.(result.Page[T]))
	p.loaded = true
	p.err = nil
	return nil
}

// Reset forgets every page fetched, so the listing is loaded again from the start
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = nil
	p.loaded = false
	p.err = nil
	p.epoch++
}
