// Package feed coordinates what a feed screen shows: an infinitely scrolled
// list of pages, or the results of a debounced search.
package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is how long the query must stay unchanged before it is searched
const DefaultDebounce = 500 * time.Millisecond

// SearchFunc returns every item matching query, in a single batch
type SearchFunc[T any] func(ctx context.Context, query string) ([]T, error)

type Options struct {
	// Debounce defaults to DefaultDebounce. Negative values disable debouncing.
	Debounce time.Duration
	Clock    Clock
	Logger   *zap.Logger
	// OnChange is called, outside any lock, every time the view may have changed
	OnChange func()
}

type State int

const (
	// StateLoading is shown until the first page arrives
	StateLoading State = iota
	StateFeed
	// StateEmpty means the feed loaded and no page carries items
	StateEmpty
	StateSearching
	StateResults
	StateNoResults
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFeed:
		return "feed"
	case StateEmpty:
		return "empty"
	case StateSearching:
		return "searching"
	case StateResults:
		return "results"
	case StateNoResults:
		return "no results"
	}
	return "unknown"
}

// View is a snapshot of what must be rendered
type View[T any] struct {
	State State
	// Query is the raw query, as typed
	Query string
	// Pages is filled in feed states
	Pages [][]T
	// Results is filled in StateResults
	Results []T
	// Sentinel tells whether the element that triggers the next page must be rendered
	Sentinel bool
	// EndOfFeed tells whether the end of feed marker must be rendered after the pages
	EndOfFeed bool
	// Err holds the last failure, for information only
	Err error
}

// Coordinator is safe for concurrent use. The raw query selects the mode:
// empty shows the paginated feed, anything else the search results of the
// debounced query. Responses are tagged with the mode or query they were
// requested for and discarded if that is no longer current.
type Coordinator[T any] struct {
	pager    *Pager[T]
	search   SearchFunc[T]
	debounce *Debouncer[string]
	logger   *zap.Logger
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// modeGen changes every time the mode switches between feed and search
	modeGen atomic.Uint64

	mu        sync.Mutex
	query     string
	debounced string
	sentinel  bool
	searchGen uint64
	searching bool
	results   []T
	searchErr error
	closed    bool
}

func New[T any](fetch FetchFunc[T], search SearchFunc[T], opts Options) *Coordinator[T] {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator[T]{
		pager:    NewPager(fetch),
		search:   search,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		ctx:      ctx,
		cancel:   cancel,
	}
	c.debounce = NewDebouncer("", opts.Debounce, opts.Clock, c.settled)
	return c
}

// Start loads the first page. The first page is kept whatever the mode is
// when it arrives, as every state but loading depends on it.
func (c *Coordinator[T]) Start() {
	c.spawn(func() {
		if err := c.pager.FetchNextPage(c.ctx, nil); err != nil {
			c.logFetchError(err)
		}
		c.changed()
	})
}

// Reload drops every page fetched and loads the feed again from the start
func (c *Coordinator[T]) Reload() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	c.pager.Reset()
	c.modeGen.Add(1)
	c.Start()
	c.changed()
}

// SetQuery receives the query as typed. Leaving it empty with the sentinel
// in view resumes page fetching straight away.
func (c *Coordinator[T]) SetQuery(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	wasEmpty := c.query == ""
	c.query = query
	if wasEmpty != (query == "") {
		c.modeGen.Add(1)
	}
	resume := !wasEmpty && query == "" && c.sentinel
	c.mu.Unlock()

	c.debounce.Set(query)
	if resume {
		c.advance()
	}
	c.changed()
}

// SetSentinelVisible reports whether the sentinel is in view. While it is,
// with no query typed and more pages available, the next page is requested.
func (c *Coordinator[T]) SetSentinelVisible(visible bool) {
	c.mu.Lock()
	c.sentinel = visible
	fire := visible && c.query == "" && !c.closed
	c.mu.Unlock()

	if fire {
		c.advance()
	}
}

// View returns what must be rendered right now
func (c *Coordinator[T]) View() View[T] {
	pages := c.pager.Pages()
	loaded := c.pager.Loaded()
	hasNext := c.pager.HasNextPage()
	fetchErr := c.pager.Err()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T]{Query: c.query, Err: fetchErr}
	switch {
	case !loaded:
		v.State = StateLoading
	case c.query != "":
		switch {
		case c.searching || c.query != c.debounced:
			v.State = StateSearching
		case len(c.results) > 0:
			v.State = StateResults
			v.Results = c.results
		default:
			v.State = StateNoResults
		}
		if c.searchErr != nil {
			v.Err = c.searchErr
		}
	case pages.AllEmpty():
		v.State = StateEmpty
	default:
		v.State = StateFeed
		v.Pages = pages.Lists()
		v.Sentinel = hasNext
		v.EndOfFeed = !hasNext
	}
	return v
}

// Wait blocks until every fetch and search issued so far has completed
func (c *Coordinator[T]) Wait() {
	c.wg.Wait()
}

// Close cancels in flight requests and waits for them to return
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.debounce.Stop()
	c.cancel()
	c.wg.Wait()
}

// settled receives the debounced query
func (c *Coordinator[T]) settled(query string) {
	c.mu.Lock()
	c.debounced = query
	c.searchGen++
	gen := c.searchGen
	c.searching = query != ""
	if query == "" {
		c.results = nil
		c.searchErr = nil
	}
	c.mu.Unlock()

	if query != "" {
		c.spawn(func() { c.runSearch(gen, query) })
	}
	c.changed()
}

func (c *Coordinator[T]) runSearch(gen uint64, query string) {
	found, err := c.search(c.ctx, query)

	c.mu.Lock()
	if gen != c.searchGen || c.closed {
		c.mu.Unlock()
		c.logger.Debug("discarding stale search results", zap.String("query", query))
		return
	}
	c.searching = false
	c.results = found
	c.searchErr = err
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
	}
	c.changed()
}

// advance requests the next page for the current mode generation
func (c *Coordinator[T]) advance() {
	if !c.pager.HasNextPage() {
		return
	}
	gen := c.modeGen.Load()
	c.spawn(func() {
		err := c.pager.FetchNextPage(c.ctx, func() bool {
			return c.modeGen.Load() == gen
		})
		if err != nil {
			c.logFetchError(err)
		}
		c.changed()
	})
}

func (c *Coordinator[T]) logFetchError(err error) {
	switch {
	case errors.Is(err, ErrStale):
		c.logger.Debug("discarding stale page")
	case errors.Is(err, context.Canceled):
	default:
		c.logger.Warn("page fetch failed", zap.Error(err))
	}
}

// spawn runs f on its own goroutine unless the coordinator is closed
func (c *Coordinator[T]) spawn(f func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		f()
	}()
}

func (c *Coordinator[T]) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
