package listing

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	domproduct "example.com/marketplace/app/internal/domain/product"
)

// Fetcher executes a derived query against the product listing backend.
type Fetcher interface {
	ListProducts(ctx context.Context, q Query) (domproduct.PaginatedResult, error)
}

// Phase is the rendering state of the listing.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	// PhaseEmpty: zero results and no active filters; there is nothing to
	// relax, only navigation away makes sense.
	PhaseEmpty
	// PhaseEmptyFiltered: zero results because of active filters; offers
	// clear-filters and retry.
	PhaseEmptyFiltered
	PhaseError
)

// View is a consistent snapshot of what the listing should render.
type View struct {
	Phase  Phase
	Query  Query
	Result domproduct.PaginatedResult
	Err    error
}

// PageWindow returns the page buttons to render for this view.
func (v View) PageWindow() []int {
	return PageWindow(v.Query.Page, v.Result.TotalPages())
}

// DefaultDebounce is the quiet period applied to raw search keystrokes.
const DefaultDebounce = 300 * time.Millisecond

// Controller reconciles the address-bar query string, the local filter state
// and the in-flight backend query, and drives exactly one logical request per
// settled state change. Local state is canonical during an interaction; the
// URL is its serialization target and the initial-state source.
//
// Fetches run asynchronously. Each carries a generation number; a transition
// bumps the generation and cancels the previous fetch, and a completion whose
// generation is no longer current is discarded, so a slow early response can
// never clobber a fast later one.
type Controller struct {
	fetcher  Fetcher
	debounce *Debouncer
	onChange func(View)

	mu          sync.Mutex
	filters     FilterState
	page        int
	searchInput string
	searchGen   uint64
	location    url.Values

	gen     uint64
	cancel  context.CancelFunc
	root    context.Context
	stop    context.CancelFunc
	view    View
	stopped bool
}

type Option func(*Controller)

// WithDebounce overrides the search quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = NewDebouncer(d) }
}

// WithOnChange registers a callback invoked, outside the controller lock,
// whenever the view changes.
func WithOnChange(fn func(View)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController builds a controller whose initial state is parsed from the
// given URL query values. Call Start to issue the first fetch.
func NewController(fetcher Fetcher, initial url.Values, opts ...Option) *Controller {
	root, stop := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:  fetcher,
		debounce: NewDebouncer(DefaultDebounce),
		location: url.Values{},
		root:     root,
		stop:     stop,
	}
	for key, vals := range initial {
		c.location[key] = append([]string(nil), vals...)
	}
	c.filters, c.page = ParseValues(c.location)
	c.searchInput = c.filters.SearchTerm
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start issues the fetch for the initial state.
func (c *Controller) Start() {
	c.mu.Lock()
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// Stop cancels the pending debounce and any in-flight fetch. A stale
// completion after Stop is discarded like any other.
func (c *Controller) Stop() {
	c.debounce.Stop()
	c.mu.Lock()
	c.stopped = true
	c.gen++
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.stop()
}

// SetSearchTerm records a raw keystroke value. The term settles after the
// quiet period; on settle, if it differs from the current query's term, the
// page resets to 1 and URL and query update as one transition.
func (c *Controller) SetSearchTerm(raw string) {
	c.mu.Lock()
	c.searchInput = raw
	gen := c.searchGen
	c.mu.Unlock()

	c.debounce.Schedule(func() { c.settleSearch(raw, gen) })
}

func (c *Controller) settleSearch(term string, gen uint64) {
	c.mu.Lock()
	// A gen mismatch means the filters were cleared after this keystroke;
	// the pending term must not be reinstated.
	if c.stopped || gen != c.searchGen || term == c.filters.SearchTerm {
		c.mu.Unlock()
		return
	}
	c.filters.SearchTerm = term
	c.page = 1
	c.syncURLLocked()
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// ToggleCategory adds the category to the selection, or removes it if
// already selected. Any category change resets the page to 1.
func (c *Controller) ToggleCategory(name string) {
	c.mu.Lock()
	if c.filters.HasCategory(name) {
		kept := c.filters.Categories[:0]
		for _, cat := range c.filters.Categories {
			if cat != name {
				kept = append(kept, cat)
			}
		}
		c.filters.Categories = kept
	} else {
		c.filters.Categories = append(c.filters.Categories, name)
	}
	c.page = 1
	c.syncURLLocked()
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// SetPriceBounds coerces the raw bounds and applies them. Non-numeric input
// and a zero upper bound fall back to the sentinel; an inverted range falls
// back to the defaults. Changing the bounds resets the page to 1.
func (c *Controller) SetPriceBounds(minRaw, maxRaw string) {
	pr := PriceRange{
		Min: ParsePrice(minRaw, MinPriceDefault),
		Max: ParsePrice(maxRaw, MaxPriceDefault),
	}.normalized()

	c.mu.Lock()
	if pr == c.filters.PriceRange {
		c.mu.Unlock()
		return
	}
	c.filters.PriceRange = pr
	c.page = 1
	c.syncURLLocked()
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// SetPage moves to the given page. Scrolling back to the top is the caller's
// concern.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	if page == c.page {
		c.mu.Unlock()
		return
	}
	c.page = page
	c.syncURLLocked()
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// ClearFilters resets every filter and the page, and navigates to the bare
// listing URL with all query parameters removed. A search term still pending
// in the debouncer is discarded, not settled.
func (c *Controller) ClearFilters() {
	c.debounce.Stop()
	c.mu.Lock()
	c.filters = DefaultFilters()
	c.searchInput = ""
	c.searchGen++
	c.page = 1
	c.location = url.Values{}
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// Retry reissues the current derived query after a failed fetch. Filters are
// exactly as the user left them.
func (c *Controller) Retry() {
	c.mu.Lock()
	notify := c.refetchLocked()
	c.mu.Unlock()
	notify()
}

// View returns the current rendering snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Filters returns a copy of the current filter state.
func (c *Controller) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.filters
	f.Categories = append([]string(nil), c.filters.Categories...)
	return f
}

// SearchInput returns the raw, not yet settled search text for echoing in
// the input field.
func (c *Controller) SearchInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchInput
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// URL returns the current address-bar serialization of the listing state.
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location.Encode()
}

func (c *Controller) syncURLLocked() {
	EncodeValues(c.location, c.filters, c.page)
}

// refetchLocked starts a fetch for the current state and returns a function
// that delivers the loading view to onChange. Callers must invoke it after
// releasing the lock.
func (c *Controller) refetchLocked() func() {
	if c.stopped {
		return func() {}
	}

	q := Derive(c.filters, c.page)
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.root)
	c.cancel = cancel

	c.view = View{Phase: PhaseLoading, Query: q, Result: c.view.Result}
	loading := c.view
	filtered := c.filters.Active()

	go func() {
		result, err := c.fetcher.ListProducts(ctx, q)
		cancel()

		c.mu.Lock()
		if gen != c.gen {
			// A newer transition superseded this fetch.
			c.mu.Unlock()
			return
		}
		switch {
		case err != nil && errors.Is(err, context.Canceled):
			c.mu.Unlock()
			return
		case err != nil:
			c.view = View{Phase: PhaseError, Query: q, Err: err}
		case len(result.Data) == 0 && filtered:
			c.view = View{Phase: PhaseEmptyFiltered, Query: q, Result: result}
		case len(result.Data) == 0:
			c.view = View{Phase: PhaseEmpty, Query: q, Result: result}
		default:
			c.view = View{Phase: PhaseReady, Query: q, Result: result}
		}
		done := c.view
		cb := c.onChange
		c.mu.Unlock()

		if cb != nil {
			cb(done)
		}
	}()

	cb := c.onChange
	return func() {
		if cb != nil {
			cb(loading)
		}
	}
}
