package storage

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oakfield/pokedex/internal/pokeapi"
)

// listCacheKey is the fixed namespaced key for the single-slot list cache.
const listCacheKey = "list_cache"

// cachedPage is the persisted snapshot envelope. SnapshotID and SavedAt
// are observability metadata. The cache has no expiry: a stale list is
// still served when offline.
type cachedPage struct {
	SnapshotID string            `json:"snapshot_id"`
	SavedAt    time.Time         `json:"saved_at"`
	Items      []pokeapi.ItemRef `json:"items"`
}

// SnapshotInfo describes the current cache slot without its items.
type SnapshotInfo struct {
	ID      string
	SavedAt time.Time
	Count   int
}

// ListCache is the single-slot offline snapshot of the last successfully
// fetched unfiltered catalog page. Save overwrites; only complete,
// successful pages are ever written.
type ListCache struct {
	kv *KV
}

// NewListCache wraps the given key-value store.
func NewListCache(kv *KV) *ListCache {
	return &ListCache{kv: kv}
}

// Save overwrites the slot with a new snapshot of items.
func (c *ListCache) Save(items []pokeapi.ItemRef) {
	snap := cachedPage{
		SnapshotID: ulid.Make().String(),
		SavedAt:    time.Now().UTC(),
		Items:      items,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		c.kv.log.Warn("list cache encode failed, snapshot dropped", "error", err)
		return
	}
	c.kv.Set(listCacheKey, string(data))
}

// Load returns the cached items, or absent when no usable snapshot exists.
func (c *ListCache) Load() ([]pokeapi.ItemRef, bool) {
	snap, ok := c.load()
	if !ok {
		return nil, false
	}
	return snap.Items, true
}

// Info returns snapshot metadata for inspection.
func (c *ListCache) Info() (SnapshotInfo, bool) {
	snap, ok := c.load()
	if !ok {
		return SnapshotInfo{}, false
	}
	return SnapshotInfo{ID: snap.SnapshotID, SavedAt: snap.SavedAt, Count: len(snap.Items)}, true
}

// Clear drops the snapshot.
func (c *ListCache) Clear() {
	c.kv.Delete(listCacheKey)
}

func (c *ListCache) load() (cachedPage, bool) {
	raw, ok := c.kv.Get(listCacheKey)
	if !ok {
		return cachedPage{}, false
	}
	var snap cachedPage
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		c.kv.log.Warn("list cache payload unreadable, treating as absent", "error", err)
		return cachedPage{}, false
	}
	return snap, true
}
