// internal/infrastructure/database/postgres/seed.go
package postgres

import (
	"time"

	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sampleGame struct {
	title        string
	description  string
	short        string
	price        string
	basePrice    string
	published    bool
	release      string
	ageRating    string
	requirements map[string]any
	attributes   map[string]any
	rating       float64
	reviews      int64
	downloads    int64
}

var sampleCatalog = []sampleGame{
	{
		title:       "Cyberpunk 2077: Phantom Liberty",
		description: "An open world action RPG expansion built around a spy thriller storyline.",
		short:       "Cyberpunk action RPG expansion",
		price:       "39.99", basePrice: "49.99", published: true,
		release: "2023-09-26", ageRating: "Mature",
		requirements: map[string]any{"minimum": map[string]any{
			"os": "Windows 10", "processor": "Intel Core i7-6700", "memory": "12 GB RAM",
			"graphics": "NVIDIA GeForce GTX 1060", "storage": "70 GB",
		}},
		attributes: map[string]any{"genre": []any{"RPG", "Action", "Cyberpunk"}, "features": []any{"Open World", "Story Rich"}},
		rating:     4.7, reviews: 28500, downloads: 1500000,
	},
	{
		title:       "The Legend of Zelda: Tears of the Kingdom",
		description: "Explore the lands and skies of Hyrule in the sequel to Breath of the Wild.",
		short:       "Action adventure and exploration",
		price:       "59.99", basePrice: "59.99", published: true,
		release: "2023-05-12", ageRating: "Everyone 10+",
		requirements: map[string]any{"minimum": map[string]any{"os": "Nintendo Switch", "storage": "18 GB"}},
		attributes:   map[string]any{"genre": []any{"Adventure", "Action", "RPG"}, "features": []any{"Open World", "Puzzle"}},
		rating:       4.9, reviews: 45200, downloads: 2800000,
	},
	{
		title:       "Baldur's Gate 3",
		description: "A Dungeons & Dragons role-playing game with turn-based combat and deep narrative.",
		short:       "Epic fantasy RPG",
		price:       "59.99", basePrice: "59.99", published: true,
		release: "2023-08-03", ageRating: "Mature",
		requirements: map[string]any{"minimum": map[string]any{
			"os": "Windows 10", "processor": "Intel I5 4690", "memory": "8 GB RAM",
			"graphics": "NVIDIA GTX 970", "storage": "150 GB",
		}},
		attributes: map[string]any{
			"genre":    []any{"RPG", "Fantasy", "Turn-Based"},
			"features": []any{"Story Rich", "Multiplayer"},
			"tags":     []any{"Co-op", "Multiplayer"},
		},
		rating: 4.8, reviews: 36800, downloads: 5200000,
	},
	{
		title:       "Stardew Valley",
		description: "A farming simulation where you grow crops, raise animals and build relationships.",
		short:       "Relaxing farm simulator",
		price:       "14.99", basePrice: "14.99", published: true,
		release: "2016-02-26", ageRating: "Everyone",
		requirements: map[string]any{"minimum": map[string]any{
			"os": "Windows 7", "processor": "2 GHz", "memory": "2 GB RAM",
			"graphics": "256 MB video memory", "storage": "500 MB",
		}},
		attributes: map[string]any{
			"genre":    []any{"Simulation", "RPG", "Indie"},
			"features": []any{"Farming", "Relaxing"},
			"tags":     []any{"Co-op", "Pixel Graphics"},
		},
		rating: 4.8, reviews: 428000, downloads: 25000000,
	},
	{
		title:       "Call of Duty: Modern Warfare III",
		description: "The direct sequel to Modern Warfare II with a campaign and multiplayer.",
		short:       "Modern action FPS",
		price:       "69.99", basePrice: "69.99", published: true,
		release: "2023-11-10", ageRating: "Mature",
		requirements: map[string]any{"minimum": map[string]any{
			"os": "Windows 10", "processor": "Intel Core i5-6600", "memory": "8 GB RAM",
			"graphics": "NVIDIA GeForce GTX 960", "storage": "149 GB",
		}},
		attributes: map[string]any{"genre": []any{"FPS", "Action", "Shooter"}, "features": []any{"Multiplayer", "Campaign"}},
		rating:     3.9, reviews: 12500, downloads: 850000,
	},
	{
		title:       "Hogwarts Legacy",
		description: "An open world action RPG set in the nineteenth century wizarding world.",
		short:       "Magical open world RPG",
		price:       "59.99", basePrice: "59.99", published: true,
		release: "2023-02-10", ageRating: "Teen",
		requirements: map[string]any{"minimum": map[string]any{
			"os": "Windows 10", "processor": "Intel Core i5-6600", "memory": "16 GB RAM",
			"graphics": "NVIDIA GeForce GTX 960", "storage": "85 GB",
		}},
		attributes: map[string]any{"genre": []any{"RPG", "Adventure", "Fantasy"}, "features": []any{"Open World", "Magic"}},
		rating:     4.6, reviews: 89200, downloads: 2200000,
	},
	{
		title:       "Hades",
		description: "Defy the god of the dead as you hack and slash out of the Underworld.",
		short:       "Rogue-like dungeon crawler",
		price:       "12.49", basePrice: "24.99", published: true,
		release: "2020-09-17", ageRating: "Teen",
		attributes: map[string]any{
			"genre":     "Roguelike",
			"features":  []any{"Great Soundtrack"},
			"developer": "Supergiant Games",
		},
		rating: 4.9, reviews: 210000, downloads: 6000000,
	},
	{
		title:       "Starfall Tactics",
		description: "A space strategy game still in closed development.",
		short:       "Unannounced space strategy",
		price:       "29.99", basePrice: "29.99", published: false,
		ageRating:  "Teen",
		attributes: map[string]any{"genre": []any{"Strategy", "Sci-Fi"}},
	},
}

func sampleGames() []catalog.Game {
	games := make([]catalog.Game, 0, len(sampleCatalog))

	for _, s := range sampleCatalog {
		g := catalog.Game{
			PublisherID:        uuid.New(),
			Title:              s.title,
			Description:        s.description,
			ShortDescription:   s.short,
			Price:              decimal.RequireFromString(s.price),
			BasePrice:          decimal.RequireFromString(s.basePrice),
			IsPublished:        s.published,
			AgeRating:          s.ageRating,
			SystemRequirements: s.requirements,
			AverageRating:      s.rating,
			ReviewCount:        s.reviews,
			DownloadCount:      s.downloads,
		}

		if s.release != "" {
			if release, err := time.Parse(time.DateOnly, s.release); err == nil {
				g.ReleaseDate = &release
			}
		}

		g.FromDocument(s.attributes)
		games = append(games, g)
	}

	return games
}
