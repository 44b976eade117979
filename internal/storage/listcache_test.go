package storage

import (
	"testing"
	"time"

	"github.com/oakfield/pokedex/internal/pokeapi"
)

func newListCache(t *testing.T) *ListCache {
	t.Helper()
	return NewListCache(newKV(t))
}

func refs(names ...string) []pokeapi.ItemRef {
	out := make([]pokeapi.ItemRef, len(names))
	for i, n := range names {
		out[i] = pokeapi.ItemRef{Name: n, URL: "https://pokeapi.co/api/v2/pokemon/" + n + "/"}
	}
	return out
}

func TestListCache_LoadAbsent(t *testing.T) {
	c := newListCache(t)

	if items, ok := c.Load(); ok {
		t.Errorf("Load() on empty cache = %v, true; want absent", items)
	}
}

// Save then Load returns content deep-equal to what was saved.
func TestListCache_RoundTrip(t *testing.T) {
	c := newListCache(t)
	saved := refs("bulbasaur", "ivysaur", "venusaur")

	c.Save(saved)

	loaded, ok := c.Load()
	if !ok {
		t.Fatal("Load() reported absent after Save()")
	}
	if len(loaded) != len(saved) {
		t.Fatalf("len = %d, want %d", len(loaded), len(saved))
	}
	for i := range saved {
		if loaded[i] != saved[i] {
			t.Errorf("item %d = %+v, want %+v", i, loaded[i], saved[i])
		}
	}
}

// The cache is a single slot: a second Save replaces the first entirely.
func TestListCache_SaveOverwrites(t *testing.T) {
	c := newListCache(t)

	c.Save(refs("bulbasaur"))
	c.Save(refs("charmander", "squirtle"))

	loaded, ok := c.Load()
	if !ok {
		t.Fatal("Load() reported absent")
	}
	if len(loaded) != 2 || loaded[0].Name != "charmander" {
		t.Errorf("Load() = %v, want second snapshot only", loaded)
	}
}

func TestListCache_Info(t *testing.T) {
	c := newListCache(t)

	if _, ok := c.Info(); ok {
		t.Error("Info() on empty cache should report absent")
	}

	before := time.Now().UTC().Add(-time.Second)
	c.Save(refs("bulbasaur", "charmander"))

	info, ok := c.Info()
	if !ok {
		t.Fatal("Info() reported absent after Save()")
	}
	if info.ID == "" {
		t.Error("Info().ID should carry the snapshot ULID")
	}
	if info.Count != 2 {
		t.Errorf("Info().Count = %d, want 2", info.Count)
	}
	if info.SavedAt.Before(before) {
		t.Errorf("Info().SavedAt = %v, want recent", info.SavedAt)
	}
}

func TestListCache_SnapshotIDChangesPerSave(t *testing.T) {
	c := newListCache(t)

	c.Save(refs("bulbasaur"))
	first, _ := c.Info()
	c.Save(refs("bulbasaur"))
	second, _ := c.Info()

	if first.ID == second.ID {
		t.Errorf("snapshot ids should differ across saves, both %q", first.ID)
	}
}

func TestListCache_Clear(t *testing.T) {
	c := newListCache(t)
	c.Save(refs("bulbasaur"))

	c.Clear()

	if _, ok := c.Load(); ok {
		t.Error("Load() found snapshot after Clear()")
	}
}

func TestListCache_CorruptPayloadTreatedAsAbsent(t *testing.T) {
	kv := newKV(t)
	kv.Set(listCacheKey, "not json")
	c := NewListCache(kv)

	if _, ok := c.Load(); ok {
		t.Error("Load() with corrupt payload should report absent")
	}
}
