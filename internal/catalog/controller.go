// Package catalog holds the client-side pipeline behind the list and
// detail screens: remote fetching, category filtering, debounced search,
// offline cache fallback, and the favorites toggle.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"golang.org/x/sync/errgroup"

	"github.com/oakfield/pokedex/internal/pokeapi"
	"github.com/oakfield/pokedex/internal/storage"
)

// API is the slice of the remote catalog client the pipeline consumes.
type API interface {
	ListPage(ctx context.Context, limit, offset int) (*pokeapi.Page, error)
	GetDetail(ctx context.Context, locator string) (*pokeapi.Detail, error)
	ListCategories(ctx context.Context) ([]pokeapi.Category, error)
	ListByCategory(ctx context.Context, name string) ([]pokeapi.ItemRef, error)
	Ping(ctx context.Context) error
}

// Compile-time interface check
var _ API = (*pokeapi.Client)(nil)

// User-visible messages for failed asynchronous steps. Errors are
// non-fatal: they never clear an existing working set.
const (
	msgLoadFailed     = "Could not load the catalog. Check your connection and try again."
	msgOfflineNoCache = "You are offline and no cached list is available."
	msgCategoryFailed = "Could not load that category."
)

// Defaults used when ListOptions leaves a field zero.
const (
	DefaultPageSize       = 200
	DefaultSearchDebounce = 400 * time.Millisecond
)

// Snapshot is the render-ready view of the list screen. Items is the
// render set: the working set narrowed by the active search text.
type Snapshot struct {
	Items          []pokeapi.ItemRef
	Categories     []pokeapi.Category
	ActiveCategory string
	SearchText     string
	Offline        bool
	Loading        bool
	Err            string
}

// ListOptions configures a ListController.
type ListOptions struct {
	// PageSize is the unfiltered fetch size and therefore the local-search
	// capacity bound (the remote API has no search endpoint).
	PageSize int
	// SearchDebounce is the quiet period before a search value applies.
	SearchDebounce time.Duration
	// OnChange, when set, receives a snapshot after every state change.
	OnChange func(Snapshot)
	Logger   *slog.Logger
}

// ListController reconciles the remote paginated list, category fetches,
// in-memory search, and the offline cache into one render set.
//
// Requests are tagged with per-slot sequence numbers captured at dispatch:
// one slot for initial loads, one for category fetches. A response is
// discarded when a strictly newer request for its slot has been dispatched
// since, so a slow stale response never clobbers a fresher result.
type ListController struct {
	api      API
	cache    *storage.ListCache
	log      *slog.Logger
	pageSize int
	debounce func(func())
	onChange func(Snapshot)

	mu             sync.Mutex
	original       []pokeapi.ItemRef // last unfiltered fetch, kept so clearing the category never refetches
	working        []pokeapi.ItemRef
	categories     []pokeapi.Category
	activeCategory string
	searchText     string
	pendingSearch  string
	errMsg         string
	offline        bool
	loading        bool
	loadSeq        uint64
	filterSeq      uint64
}

// NewListController creates the controller. Stores are injected, never
// ambient: the caller owns one instance per process and passes it here.
func NewListController(api API, cache *storage.ListCache, opts ListOptions) *ListController {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ListController{
		api:      api,
		cache:    cache,
		log:      logger.With("component", "catalog"),
		pageSize: opts.PageSize,
		debounce: debounce.New(opts.SearchDebounce),
		onChange: opts.OnChange,
	}
}

// Load performs the initial load: connectivity check, then either a live
// fetch of the first page plus the category list, or the cache fallback.
func (c *ListController) Load(ctx context.Context) {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	if err := c.api.Ping(ctx); err != nil {
		c.log.Info("connectivity check failed, falling back to cache", "error", err)
		c.loadFromCache(ctx, seq)
		return
	}

	var (
		page *pokeapi.Page
		cats []pokeapi.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = c.api.ListPage(gctx, c.pageSize, 0)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = c.api.ListCategories(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	if seq != c.loadSeq {
		// A newer load was dispatched while this one was in flight.
		c.mu.Unlock()
		return
	}
	c.loading = false
	if err != nil {
		c.errMsg = msgLoadFailed
		c.log.Warn("initial load failed", "error", err)
	} else {
		c.original = page.Items
		c.working = page.Items
		c.categories = cats
		c.activeCategory = ""
		c.offline = false
		c.errMsg = ""
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()

	if err == nil {
		// Only complete successful pages ever reach the cache.
		c.cache.Save(page.Items)
	}
	c.notify(snap)
}

// loadFromCache serves the initial load from the offline snapshot. The
// category list is still attempted best-effort; its failure is ignored.
func (c *ListController) loadFromCache(ctx context.Context, seq uint64) {
	items, ok := c.cache.Load()

	var cats []pokeapi.Category
	if ok {
		if got, err := c.api.ListCategories(ctx); err == nil {
			cats = got
		}
	}

	c.mu.Lock()
	if seq != c.loadSeq {
		c.mu.Unlock()
		return
	}
	c.loading = false
	c.offline = true
	if ok {
		c.original = items
		c.working = items
		if cats != nil {
			c.categories = cats
		}
		c.errMsg = ""
		c.log.Info("serving cached list", "items", len(items))
	} else {
		c.errMsg = msgOfflineNoCache
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// SelectCategory switches the active category filter. The empty string
// clears the filter and restores the last unfiltered fetch without a
// network round trip. A fetch failure keeps the prior working set.
func (c *ListController) SelectCategory(ctx context.Context, name string) {
	name = strings.ToLower(strings.TrimSpace(name))

	if name == "" {
		c.mu.Lock()
		c.filterSeq++ // supersede any in-flight category fetch
		c.activeCategory = ""
		c.working = c.original
		c.errMsg = ""
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}

	c.mu.Lock()
	c.filterSeq++
	seq := c.filterSeq
	c.activeCategory = name
	c.loading = true
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	items, err := c.api.ListByCategory(ctx, name)

	c.mu.Lock()
	if seq != c.filterSeq {
		c.mu.Unlock()
		return
	}
	c.loading = false
	if err != nil {
		c.errMsg = msgCategoryFailed
		c.log.Warn("category fetch failed", "category", name, "error", err)
	} else {
		c.working = items
		c.errMsg = ""
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// SetSearch schedules a debounced search. The value applied is the most
// recent one at the moment the quiet period elapses.
func (c *ListController) SetSearch(text string) {
	c.mu.Lock()
	c.pendingSearch = text
	c.mu.Unlock()

	c.debounce(func() {
		c.mu.Lock()
		latest := c.pendingSearch
		c.mu.Unlock()
		c.Search(latest)
	})
}

// Search applies a search value immediately. Matching is in-memory only:
// the unfiltered page was fetched large up front because the remote API
// has no search endpoint, and an active category subset is already fully
// held. The empty string restores the un-searched view for the current
// category state.
func (c *ListController) Search(text string) {
	c.mu.Lock()
	c.searchText = strings.ToLower(strings.TrimSpace(text))
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Snapshot returns the current render-ready state.
func (c *ListController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked derives the render set as a pure function of working set
// and search text. The working set is never mutated.
func (c *ListController) snapshotLocked() Snapshot {
	return Snapshot{
		Items:          filterByName(c.working, c.searchText),
		Categories:     c.categories,
		ActiveCategory: c.activeCategory,
		SearchText:     c.searchText,
		Offline:        c.offline,
		Loading:        c.loading,
		Err:            c.errMsg,
	}
}

func (c *ListController) notify(snap Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}

// filterByName narrows items to those whose name contains query as a
// case-insensitive substring. An empty query returns items unchanged.
func filterByName(items []pokeapi.ItemRef, query string) []pokeapi.ItemRef {
	if query == "" {
		return items
	}
	out := make([]pokeapi.ItemRef, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), query) {
			out = append(out, it)
		}
	}
	return out
}

// userMessage maps a client error onto the message shown for detail
// fetches.
func userMessage(err error) string {
	switch {
	case errors.Is(err, pokeapi.ErrNotFound):
		return "That entry does not exist."
	case errors.Is(err, pokeapi.ErrDecode):
		return "The catalog returned something unexpected."
	default:
		return msgLoadFailed
	}
}
