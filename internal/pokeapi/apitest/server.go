// Package apitest provides an in-process PokéAPI lookalike for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakfield/pokedex/internal/pokeapi"
)

// Entry is one seeded Pokémon: its detail record plus category memberships.
type Entry struct {
	Detail pokeapi.Detail
	Types  []string
}

// Server serves the four catalog endpoints from seeded fixture data, with
// the same response shapes the real API uses.
type Server struct {
	srv *httptest.Server

	mu        sync.Mutex
	order     []string                  // listing order, by name
	entries   map[string]pokeapi.Detail // by name
	types     map[string][]string       // category name -> member names
	typeDelay map[string]time.Duration
}

// NewServer starts a fake catalog API seeded with the given entries.
// Callers must Close it.
func NewServer(entries ...Entry) *Server {
	s := &Server{
		entries:   make(map[string]pokeapi.Detail),
		types:     make(map[string][]string),
		typeDelay: make(map[string]time.Duration),
	}

	for _, e := range entries {
		s.order = append(s.order, e.Detail.Name)
		s.entries[e.Detail.Name] = e.Detail
		for _, tn := range e.Types {
			s.types[tn] = append(s.types[tn], e.Detail.Name)
		}
	}

	r := chi.NewRouter()
	// The locators this server emits end in "/", like the real API's;
	// accept them on the slash-less routes below.
	r.Use(middleware.StripSlashes)
	r.Get("/api/v2/pokemon", s.handleList)
	r.Get("/api/v2/pokemon/{key}", s.handleDetail)
	r.Get("/api/v2/type", s.handleTypes)
	r.Get("/api/v2/type/{name}", s.handleTypeMembers)
	s.srv = httptest.NewServer(r)
	return s
}

// BaseURL returns the base URL to hand to pokeapi.New.
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api/v2"
}

// Close shuts the fake server down.
func (s *Server) Close() {
	s.srv.Close()
}

// SetTypeDelay makes the membership endpoint for one category respond
// slowly. Used to provoke out-of-order responses in race tests.
func (s *Server) SetTypeDelay(name string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeDelay[name] = d
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	results := []map[string]string{}
	for i := offset; i < len(s.order) && i < offset+limit; i++ {
		name := s.order[i]
		results = append(results, map[string]string{
			"name": name,
			"url":  s.locator(s.entries[name].ID),
		})
	}
	writeJSON(w, map[string]any{
		"count":   len(s.order),
		"results": results,
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.entries {
		if d.Name == key || strconv.Itoa(d.ID) == key {
			writeJSON(w, detailBody(d))
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.types))
	for n := range s.types {
		names = append(names, n)
	}
	sort.Strings(names)

	results := make([]map[string]string, 0, len(names))
	for _, n := range names {
		results = append(results, map[string]string{
			"name": n,
			"url":  s.srv.URL + "/api/v2/type/" + n + "/",
		})
	}
	writeJSON(w, map[string]any{"results": results})
}

func (s *Server) handleTypeMembers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	members, ok := s.types[name]
	delay := s.typeDelay[name]
	locators := make(map[string]string, len(members))
	for _, m := range members {
		locators[m] = s.locator(s.entries[m].ID)
	}
	s.mu.Unlock()

	// Sleep outside the lock so a slow category never stalls the others.
	if delay > 0 {
		time.Sleep(delay)
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	pokemon := make([]map[string]any, 0, len(members))
	for slot, m := range members {
		pokemon = append(pokemon, map[string]any{
			"slot": slot + 1,
			"pokemon": map[string]string{
				"name": m,
				"url":  locators[m],
			},
		})
	}
	writeJSON(w, map[string]any{"pokemon": pokemon})
}

func (s *Server) locator(id int) string {
	return s.srv.URL + "/api/v2/pokemon/" + strconv.Itoa(id) + "/"
}

// detailBody renders a Detail the way the real API serializes it,
// including null sprites for missing images.
func detailBody(d pokeapi.Detail) map[string]any {
	types := make([]map[string]any, len(d.Types))
	for i, t := range d.Types {
		types[i] = map[string]any{
			"slot": t.Slot,
			"type": map[string]string{"name": t.Type.Name},
		}
	}
	stats := make([]map[string]any, len(d.Stats))
	for i, st := range d.Stats {
		stats[i] = map[string]any{
			"base_stat": st.BaseStat,
			"stat":      map[string]string{"name": st.Stat.Name},
		}
	}
	return map[string]any{
		"id":              d.ID,
		"name":            d.Name,
		"height":          d.Height,
		"weight":          d.Weight,
		"base_experience": d.BaseExperience,
		"types":           types,
		"stats":           stats,
		"sprites": map[string]any{
			"front_default": nullable(d.Sprites.FrontDefault),
			"other": map[string]any{
				"official-artwork": map[string]any{
					"front_default": nullable(d.Sprites.Other.OfficialArtwork.FrontDefault),
				},
			},
		},
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
