package pokeapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/oakfield/pokedex/internal/pokeapi"
	"github.com/oakfield/pokedex/internal/pokeapi/apitest"
)

func newClient(t *testing.T) (*pokeapi.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(apitest.Starters()...)
	t.Cleanup(srv.Close)
	return pokeapi.New(srv.BaseURL(), 5*time.Second), srv
}

func TestClient_ListPage(t *testing.T) {
	c, _ := newClient(t)

	page, err := c.ListPage(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}

	if page.Total != 9 {
		t.Errorf("Total = %d, want 9", page.Total)
	}
	if len(page.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(page.Items))
	}
	if page.Items[0].Name != "bulbasaur" {
		t.Errorf("Items[0].Name = %q, want bulbasaur", page.Items[0].Name)
	}
	if page.Items[0].URL == "" {
		t.Error("Items[0].URL should carry the detail locator")
	}
}

func TestClient_ListPage_Offset(t *testing.T) {
	c, _ := newClient(t)

	page, err := c.ListPage(context.Background(), 3, 3)
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}

	if len(page.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(page.Items))
	}
	if page.Items[0].Name != "charmander" {
		t.Errorf("Items[0].Name = %q, want charmander", page.Items[0].Name)
	}
}

func TestClient_GetDetail_ByName(t *testing.T) {
	c, _ := newClient(t)

	d, err := c.GetDetail(context.Background(), "charizard")
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}

	if d.ID != 6 {
		t.Errorf("ID = %d, want 6", d.ID)
	}
	if d.Name != "charizard" {
		t.Errorf("Name = %q, want charizard", d.Name)
	}
	if len(d.Types) != 2 || d.Types[0].Type.Name != "fire" {
		t.Errorf("Types = %+v, want fire first", d.Types)
	}
	if len(d.Stats) == 0 {
		t.Error("Stats should not be empty")
	}
	if d.Sprites.FrontDefault == "" {
		t.Error("Sprites.FrontDefault should be set")
	}
}

func TestClient_GetDetail_ByID(t *testing.T) {
	c, _ := newClient(t)

	d, err := c.GetDetail(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if d.Name != "squirtle" {
		t.Errorf("Name = %q, want squirtle", d.Name)
	}
}

func TestClient_GetDetail_ByListingURL(t *testing.T) {
	c, _ := newClient(t)

	// Take the locator straight off a listing response, as the detail
	// screen does.
	page, err := c.ListPage(context.Background(), 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	d, err := c.GetDetail(context.Background(), page.Items[0].URL)
	if err != nil {
		t.Fatalf("GetDetail(url) error = %v", err)
	}
	if d.Name != page.Items[0].Name {
		t.Errorf("Name = %q, want %q", d.Name, page.Items[0].Name)
	}
}

func TestClient_GetDetail_NotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.GetDetail(context.Background(), "missingno")
	if !errors.Is(err, pokeapi.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_ListCategories(t *testing.T) {
	c, _ := newClient(t)

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}

	names := make(map[string]bool, len(cats))
	for _, cat := range cats {
		names[cat.Name] = true
	}
	for _, want := range []string{"fire", "water", "grass"} {
		if !names[want] {
			t.Errorf("categories missing %q, got %v", want, names)
		}
	}
}

func TestClient_ListByCategory(t *testing.T) {
	c, _ := newClient(t)

	items, err := c.ListByCategory(context.Background(), "fire")
	if err != nil {
		t.Fatalf("ListByCategory() error = %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	// The nested {pokemon:{name,url}} wrapper must be flattened away.
	for _, it := range items {
		if it.Name == "" || it.URL == "" {
			t.Errorf("item %+v not fully mapped", it)
		}
	}
}

func TestClient_ListByCategory_NotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.ListByCategory(context.Background(), "shadow")
	if !errors.Is(err, pokeapi.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_Ping(t *testing.T) {
	c, srv := newClient(t)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); !errors.Is(err, pokeapi.ErrUnavailable) {
		t.Errorf("Ping() after close = %v, want ErrUnavailable", err)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	// Point the client at a dead address.
	c := pokeapi.New("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := c.ListPage(context.Background(), 20, 0)
	if !errors.Is(err, pokeapi.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := pokeapi.New(srv.URL, time.Second)
	_, err := c.ListPage(context.Background(), 20, 0)
	if !errors.Is(err, pokeapi.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := pokeapi.New(srv.URL, time.Second)

	tests := []struct {
		name string
		call func() error
	}{
		{"ListPage", func() error { _, err := c.ListPage(context.Background(), 20, 0); return err }},
		{"GetDetail", func() error { _, err := c.GetDetail(context.Background(), "bulbasaur"); return err }},
		{"ListCategories", func() error { _, err := c.ListCategories(context.Background()); return err }},
		{"ListByCategory", func() error { _, err := c.ListByCategory(context.Background(), "fire"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, pokeapi.ErrDecode) {
				t.Errorf("error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestClient_MissingResults(t *testing.T) {
	// Valid JSON, wrong shape: a listing without a results array.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 0}`))
	}))
	defer srv.Close()

	c := pokeapi.New(srv.URL, time.Second)
	_, err := c.ListPage(context.Background(), 20, 0)
	if !errors.Is(err, pokeapi.ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	c := pokeapi.New(srv.URL, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.ListPage(ctx, 20, 0)
	if !errors.Is(err, pokeapi.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled request should return promptly")
	}
}

func TestDetail_Conversions(t *testing.T) {
	d := &pokeapi.Detail{ID: 6, Height: 17, Weight: 905}

	if got := d.HeightMeters(); got != 1.7 {
		t.Errorf("HeightMeters() = %v, want 1.7", got)
	}
	if got := d.WeightKilograms(); got != 90.5 {
		t.Errorf("WeightKilograms() = %v, want 90.5", got)
	}
}

func TestDetail_Artwork_Preference(t *testing.T) {
	art := "https://img.example/art/6.png"
	front := "https://img.example/front/6.png"

	d := &pokeapi.Detail{ID: 6}
	d.Sprites.FrontDefault = front
	d.Sprites.Other.OfficialArtwork.FrontDefault = art
	if got := d.Artwork(); got != art {
		t.Errorf("Artwork() = %q, want official artwork first", got)
	}

	d.Sprites.Other.OfficialArtwork.FrontDefault = ""
	if got := d.Artwork(); got != front {
		t.Errorf("Artwork() = %q, want front sprite fallback", got)
	}

	d.Sprites.FrontDefault = ""
	if got := d.Artwork(); got != pokeapi.SpriteURL(strconv.Itoa(6)) {
		t.Errorf("Artwork() = %q, want id-derived fallback", got)
	}
}
