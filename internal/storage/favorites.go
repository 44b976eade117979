package storage

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/oakfield/pokedex/internal/pokeapi"
)

// favoritesKey is the fixed namespaced key for the favorites collection.
const favoritesKey = "favorites"

// FavoriteRecord is the canonical persisted favorite shape. ID is the
// numeric catalog id when known, zero otherwise; Name is stored lowercase
// and serves as the fallback identity. Sprite keeps enough to render a
// list card without a re-fetch.
type FavoriteRecord struct {
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name"`
	Sprite string `json:"sprite,omitempty"`
}

// ImageURL returns the stored sprite, falling back to the id-derived
// hosting URL for records saved without one.
func (r FavoriteRecord) ImageURL() string {
	if r.Sprite != "" {
		return r.Sprite
	}
	if r.ID > 0 {
		return pokeapi.SpriteURL(strconv.Itoa(r.ID))
	}
	return ""
}

// FavoriteKey identifies a favorite by numeric id, name, or both. A key
// matches a record on id equality when both carry one, or on
// case-insensitive name equality. The name fallback supports lookups from
// list-only references, where the numeric id is not yet known.
type FavoriteKey struct {
	ID   int
	Name string
}

func (k FavoriteKey) matches(r FavoriteRecord) bool {
	if k.ID > 0 && k.ID == r.ID {
		return true
	}
	return k.Name != "" && strings.EqualFold(k.Name, r.Name)
}

// Favorites is the persisted favorites set. It is a process-wide single
// logical writer: concurrent read-modify-write from two callers is not
// transactional.
type Favorites struct {
	kv *KV
}

// NewFavorites wraps the given key-value store.
func NewFavorites(kv *KV) *Favorites {
	return &Favorites{kv: kv}
}

// List returns all favorite records in insertion order. An absent or
// unreadable key is an empty list.
func (f *Favorites) List() []FavoriteRecord {
	raw, ok := f.kv.Get(favoritesKey)
	if !ok {
		return nil
	}
	var recs []FavoriteRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		f.kv.log.Warn("favorites payload unreadable, treating as empty", "error", err)
		return nil
	}
	return recs
}

// Add appends a record unless one with the same identity already exists.
func (f *Favorites) Add(rec FavoriteRecord) {
	rec.Name = strings.ToLower(strings.TrimSpace(rec.Name))

	recs := f.List()
	key := FavoriteKey{ID: rec.ID, Name: rec.Name}
	for _, r := range recs {
		if key.matches(r) {
			return
		}
	}
	f.save(append(recs, rec))
}

// Remove deletes the first record matching key. Absent identity is a no-op.
func (f *Favorites) Remove(key FavoriteKey) {
	recs := f.List()
	for i, r := range recs {
		if key.matches(r) {
			f.save(append(recs[:i], recs[i+1:]...))
			return
		}
	}
}

// Contains reports whether a record matching key exists.
func (f *Favorites) Contains(key FavoriteKey) bool {
	for _, r := range f.List() {
		if key.matches(r) {
			return true
		}
	}
	return false
}

func (f *Favorites) save(recs []FavoriteRecord) {
	data, err := json.Marshal(recs)
	if err != nil {
		f.kv.log.Warn("favorites encode failed, change dropped", "error", err)
		return
	}
	f.kv.Set(favoritesKey, string(data))
}
