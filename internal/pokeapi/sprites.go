package pokeapi

import (
	"fmt"
	"strings"
)

// spriteURLTemplate is the fixed image-hosting location for id-keyed sprites.
const spriteURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%s.png"

// ExtractID returns the numeric identity embedded in a locator URL.
// Locator URLs end with "/{id}/", so the id is the second-to-last segment
// of the slash split. Returns "" when the URL has no such segment.
func ExtractID(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// SpriteURL substitutes an id into the sprite hosting template. This is a
// pure string transform, not a network call.
func SpriteURL(id string) string {
	return fmt.Sprintf(spriteURLTemplate, id)
}
