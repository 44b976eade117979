package pokeapi

import "strconv"

// ItemRef is one entry from a listing or category-membership response.
// Name is unique within a response and doubles as the stable render key;
// URL is the opaque locator used to fetch the full record.
type ItemRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is one window of the paginated catalog listing.
type Page struct {
	Items []ItemRef
	Total int
}

// Category is one tag-like grouping of catalog entries (a "type" in
// PokéAPI terms). Fetched once per session, read-only.
type Category struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Detail is the full record for a single Pokémon. It is fetched lazily and
// never cached: every detail view re-fetches.
type Detail struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Height         int         `json:"height"`
	Weight         int         `json:"weight"`
	BaseExperience int         `json:"base_experience"`
	Types          []TypeSlot  `json:"types"`
	Stats          []StatEntry `json:"stats"`
	Sprites        Sprites     `json:"sprites"`
}

// TypeSlot is one entry of a detail record's ordered type list.
type TypeSlot struct {
	Slot int   `json:"slot"`
	Type Named `json:"type"`
}

// StatEntry is one named base stat of a detail record.
type StatEntry struct {
	BaseStat int   `json:"base_stat"`
	Stat     Named `json:"stat"`
}

// Named is the {name} sub-object PokéAPI nests everywhere.
type Named struct {
	Name string `json:"name"`
}

// Sprites holds the image references of a detail record. PokéAPI returns
// null for missing sprites, which decodes to the empty string here.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites holds the alternate sprite sets.
type OtherSprites struct {
	OfficialArtwork ArtworkSprites `json:"official-artwork"`
}

// ArtworkSprites holds the official artwork references.
type ArtworkSprites struct {
	FrontDefault string `json:"front_default"`
}

// HeightMeters converts the decimeter height PokéAPI reports.
func (d *Detail) HeightMeters() float64 {
	return float64(d.Height) / 10
}

// WeightKilograms converts the hectogram weight PokéAPI reports.
func (d *Detail) WeightKilograms() float64 {
	return float64(d.Weight) / 10
}

// Artwork returns the best available image for the record: official
// artwork, then the default front sprite, then the id-derived fallback.
func (d *Detail) Artwork() string {
	if art := d.Sprites.Other.OfficialArtwork.FrontDefault; art != "" {
		return art
	}
	if d.Sprites.FrontDefault != "" {
		return d.Sprites.FrontDefault
	}
	return SpriteURL(strconv.Itoa(d.ID))
}
