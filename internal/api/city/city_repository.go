package city

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mahnouor1/streetly/internal/types"
)

// ErrCityNotFound is returned when a name resolves to no known destination.
var ErrCityNotFound = fmt.Errorf("city not found")

var _ Repository = (*StaticCityRepository)(nil)

// Repository defines read access to the destination reference table.
type Repository interface {
	GetCity(ctx context.Context, name string) (*types.City, error)
	GetAllCities(ctx context.Context) ([]types.City, error)
}

// StaticCityRepository serves the fixed northern-Pakistan destination table.
// The data is immutable; lookups never touch the network.
type StaticCityRepository struct {
	logger  *slog.Logger
	cities  map[string]types.City
	aliases map[string]string
}

func NewStaticCityRepository(logger *slog.Logger) *StaticCityRepository {
	r := &StaticCityRepository{
		logger:  logger,
		cities:  make(map[string]types.City, len(referenceCities)),
		aliases: make(map[string]string),
	}
	for _, c := range referenceCities {
		r.cities[strings.ToLower(c.Name)] = c
	}
	for alias, canonical := range cityAliases {
		r.aliases[alias] = canonical
	}
	return r
}

func (r *StaticCityRepository) GetCity(ctx context.Context, name string) (*types.City, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	c, ok := r.cities[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, name)
	}
	return &c, nil
}

func (r *StaticCityRepository) GetAllCities(ctx context.Context) ([]types.City, error) {
	out := make([]types.City, 0, len(referenceCities))
	out = append(out, referenceCities...)
	return out, nil
}

var cityAliases = map[string]string{
	"hunza":  "hunza valley",
	"swat":   "swat valley",
	"neelum": "neelum valley",
	"neelam": "neelum valley",
}

var referenceCities = []types.City{
	{
		Name:       "Hunza Valley",
		Latitude:   36.3167,
		Longitude:  74.65,
		Timezone:   "Asia/Karachi",
		Population: "100,000",
		Language:   "Burushaski",
		Trending: []string{
			"🍒 Cherry Blossom Festival",
			"🏰 Altit & Baltit Forts",
			"🦅 Eagle's Nest",
		},
		Events: []types.Event{
			{
				Name:        "Silk Route Festival",
				Date:        "July 15-17",
				Location:    "Karimabad",
				Description: "A vibrant festival celebrating the cultural heritage of the ancient Silk Route, with music, dance, and local crafts.",
				Image:       "images/silk-route.webp",
			},
		},
	},
	{
		Name:       "Skardu",
		Latitude:   35.2979,
		Longitude:  75.6333,
		Timezone:   "Asia/Karachi",
		Population: "200,000",
		Language:   "Balti",
		Trending: []string{
			"🏞️ Shangrila Resort",
			"🛶 Upper Kachura Lake",
			"🏜️ Katpana Desert",
		},
		Events: []types.Event{
			{
				Name:        "Shandur Polo Festival",
				Date:        "July 7-9",
				Location:    "Shandur Top",
				Description: "Experience the 'Game of Kings' at the highest polo ground in the world, a rugged and thrilling tournament between Chitral and Gilgit teams.",
				Image:       "images/shandur.webp",
			},
		},
	},
	{
		Name:       "Naran",
		Latitude:   34.91,
		Longitude:  73.6522,
		Timezone:   "Asia/Karachi",
		Population: "50,000",
		Language:   "Hindko",
		Trending: []string{
			"🏞️ Saiful Muluk Lake",
			"🏔️ Babusar Top",
			"🏞️ Lulusar Lake",
		},
	},
	{
		Name:       "Chitral",
		Latitude:   35.8511,
		Longitude:  71.7889,
		Timezone:   "Asia/Karachi",
		Population: "40,000",
		Language:   "Khowar",
		Trending: []string{
			"🏘️ Kalash Valley",
			"🏔️ Tirich Mir",
			"🏛️ Chitral Museum",
		},
	},
	{
		Name:       "Swat Valley",
		Latitude:   35.2228,
		Longitude:  72.4258,
		Timezone:   "Asia/Karachi",
		Population: "2.3M",
		Language:   "Pashto",
		Trending: []string{
			"⛷️ Malam Jabba",
			"🌲 Kalam Valley",
			"🌳 Ushu Forest",
		},
	},
	{
		Name:       "Neelum Valley",
		Latitude:   34.5869,
		Longitude:  73.9014,
		Timezone:   "Asia/Karachi",
		Population: "191,000",
		Language:   "Kashmiri",
		Trending: []string{
			"🏞️ Arrang Kel",
			"🏞️ Keran",
			"🏛️ Sharda Peeth",
		},
	},
	{
		Name:       "Fairy Meadows",
		Latitude:   35.4214,
		Longitude:  74.5958,
		Timezone:   "Asia/Karachi",
		Population: "1,000",
		Language:   "Shina",
		Trending: []string{
			"🏔️ Nanga Parbat Base Camp",
			"🏕️ Beyal Camp",
			"🏞️ Reflection Lake",
		},
	},
}
