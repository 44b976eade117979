package apitest

import (
	"strconv"

	"github.com/oakfield/pokedex/internal/pokeapi"
)

// Starters returns a small seed dataset covering the grass, fire, and
// water categories plus a multi-stage name family for substring search.
func Starters() []Entry {
	return []Entry{
		seed(1, "bulbasaur", 7, 69, 64, []string{"grass", "poison"}),
		seed(2, "ivysaur", 10, 130, 142, []string{"grass", "poison"}),
		seed(3, "venusaur", 20, 1000, 263, []string{"grass", "poison"}),
		seed(4, "charmander", 6, 85, 62, []string{"fire"}),
		seed(5, "charmeleon", 11, 190, 142, []string{"fire"}),
		seed(6, "charizard", 17, 905, 267, []string{"fire", "flying"}),
		seed(7, "squirtle", 5, 90, 63, []string{"water"}),
		seed(8, "wartortle", 10, 225, 142, []string{"water"}),
		seed(9, "blastoise", 16, 855, 265, []string{"water"}),
	}
}

func seed(id int, name string, height, weight, baseExp int, types []string) Entry {
	slots := make([]pokeapi.TypeSlot, len(types))
	for i, tn := range types {
		slots[i] = pokeapi.TypeSlot{Slot: i + 1, Type: pokeapi.Named{Name: tn}}
	}
	return Entry{
		Detail: pokeapi.Detail{
			ID:             id,
			Name:           name,
			Height:         height,
			Weight:         weight,
			BaseExperience: baseExp,
			Types:          slots,
			Stats: []pokeapi.StatEntry{
				{BaseStat: 30 + id, Stat: pokeapi.Named{Name: "hp"}},
				{BaseStat: 40 + id, Stat: pokeapi.Named{Name: "attack"}},
				{BaseStat: 35 + id, Stat: pokeapi.Named{Name: "defense"}},
				{BaseStat: 45 + id, Stat: pokeapi.Named{Name: "speed"}},
			},
			Sprites: pokeapi.Sprites{
				FrontDefault: pokeapi.SpriteURL(strconv.Itoa(id)),
			},
		},
		Types: types,
	}
}
