package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/oakfield/pokedex/internal/pokeapi"
	"github.com/oakfield/pokedex/internal/storage"
)

// LoadState is the detail screen's fetch lifecycle.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateLoadFailed
)

// FavoriteStatus is the independent favorite-membership axis. It resolves
// from the persisted set even when the detail fetch fails.
type FavoriteStatus int

const (
	FavoriteUnknown FavoriteStatus = iota
	Favorited
	NotFavorited
)

// ErrNotLoaded is returned when ToggleFavorite is called before a
// successful Load.
var ErrNotLoaded = errors.New("detail not loaded")

// Lookup identifies one catalog entry by whatever the caller has on hand.
// Resolution preference: locator URL, then numeric id, then name.
type Lookup struct {
	URL  string
	ID   int
	Name string
}

// locator renders the lookup as a GetDetail argument.
func (l Lookup) locator() string {
	switch {
	case l.URL != "":
		return l.URL
	case l.ID > 0:
		return strconv.Itoa(l.ID)
	default:
		return l.Name
	}
}

// favoriteKey builds the persisted-set key. A URL-only lookup recovers the
// numeric id from the locator so membership can still resolve.
func (l Lookup) favoriteKey() storage.FavoriteKey {
	key := storage.FavoriteKey{ID: l.ID, Name: l.Name}
	if key.ID == 0 && l.URL != "" {
		if id, err := strconv.Atoi(pokeapi.ExtractID(l.URL)); err == nil {
			key.ID = id
		}
	}
	return key
}

// DetailController loads one item's full record and toggles its favorite
// membership.
type DetailController struct {
	api    API
	favs   *storage.Favorites
	log    *slog.Logger
	lookup Lookup

	mu       sync.Mutex
	state    LoadState
	detail   *pokeapi.Detail
	favorite FavoriteStatus
	errMsg   string
}

// NewDetailController creates a controller for one catalog entry.
func NewDetailController(api API, favs *storage.Favorites, lookup Lookup, logger *slog.Logger) *DetailController {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailController{
		api:    api,
		favs:   favs,
		log:    logger.With("component", "catalog"),
		lookup: lookup,
		state:  StateIdle,
	}
}

// Load fetches the detail record and resolves favorite membership. The
// two are independent: a failed fetch still yields a known favorite
// status.
func (d *DetailController) Load(ctx context.Context) {
	d.mu.Lock()
	d.state = StateLoading
	d.mu.Unlock()

	fav := NotFavorited
	if d.favs.Contains(d.lookup.favoriteKey()) {
		fav = Favorited
	}

	detail, err := d.api.GetDetail(ctx, d.lookup.locator())

	d.mu.Lock()
	defer d.mu.Unlock()
	d.favorite = fav
	if err != nil {
		d.state = StateLoadFailed
		d.errMsg = userMessage(err)
		d.log.Warn("detail load failed", "lookup", d.lookup.locator(), "error", err)
		return
	}
	d.state = StateLoaded
	d.detail = detail
	d.errMsg = ""
}

// ToggleFavorite flips favorite membership for the loaded record. It
// requires a successful Load: the persisted record is built from the full
// detail, not the lookup. The store layer swallows its own failures, so
// the flag flip cannot be rolled back; that is the accepted policy.
func (d *DetailController) ToggleFavorite() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateLoaded {
		return false, ErrNotLoaded
	}

	key := storage.FavoriteKey{ID: d.detail.ID, Name: d.detail.Name}
	if d.favorite == Favorited {
		d.favs.Remove(key)
		d.favorite = NotFavorited
		return false, nil
	}

	// Prefer the official artwork, then the front sprite. An empty sprite
	// is fine: the record derives an id-based image on read.
	sprite := d.detail.Sprites.Other.OfficialArtwork.FrontDefault
	if sprite == "" {
		sprite = d.detail.Sprites.FrontDefault
	}
	d.favs.Add(storage.FavoriteRecord{
		ID:     d.detail.ID,
		Name:   d.detail.Name,
		Sprite: sprite,
	})
	d.favorite = Favorited
	return true, nil
}

// State returns the current load state.
func (d *DetailController) State() LoadState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Detail returns the loaded record, nil before a successful Load.
func (d *DetailController) Detail() *pokeapi.Detail {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detail
}

// Favorite returns the current favorite status.
func (d *DetailController) Favorite() FavoriteStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.favorite
}

// Err returns the user-visible message from the last failed step.
func (d *DetailController) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errMsg
}
