// internal/domain/catalog/entity.go
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Game represents a game record in the catalog
type Game struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PublisherID        uuid.UUID       `gorm:"type:uuid;index" json:"publisher_id"`
	Title              string          `gorm:"not null;size:255;index" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	ShortDescription   string          `gorm:"size:500" json:"short_description"`
	Price              decimal.Decimal `gorm:"type:numeric(10,2);not null;index" json:"price"`
	BasePrice          decimal.Decimal `gorm:"type:numeric(10,2)" json:"base_price"`
	IsPublished        bool            `gorm:"not null;default:false;index" json:"is_published"`
	ReleaseDate        *time.Time      `gorm:"type:date" json:"release_date"`
	AgeRating          string          `gorm:"size:50" json:"age_rating"`
	Genres             []string        `gorm:"type:text;serializer:json" json:"genres"`
	Tags               []string        `gorm:"type:text;serializer:json" json:"tags"`
	Features           []string        `gorm:"type:text;serializer:json" json:"features"`
	SystemRequirements map[string]any  `gorm:"type:text;serializer:json" json:"system_requirements,omitempty"`
	Metadata           map[string]any  `gorm:"column:metadata;type:text;serializer:json" json:"metadata,omitempty"`
	AverageRating      float64         `gorm:"not null;default:0;index" json:"average_rating"`
	ReviewCount        int64           `gorm:"not null;default:0" json:"review_count"`
	DownloadCount      int64           `gorm:"not null;default:0" json:"download_count"`
	TotalPlaytime      int64           `gorm:"not null;default:0" json:"total_playtime"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Game) TableName() string {
	return "games"
}

// BeforeCreate assigns an ID when the caller did not
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// IsOnSale reports whether the current price is below the list price
func (g *Game) IsOnSale() bool {
	return g.Price.LessThan(g.BasePrice)
}

// HasGenre reports whether any genre tag equals name, ignoring case
func (g *Game) HasGenre(name string) bool {
	for _, genre := range g.Genres {
		if strings.EqualFold(genre, name) {
			return true
		}
	}
	return false
}

// HasTag reports whether any tag equals name, ignoring case
func (g *Game) HasTag(name string) bool {
	for _, tag := range g.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// SupportsPlatform reports whether the system requirements carry an entry
// for platform, ignoring case
func (g *Game) SupportsPlatform(platform string) bool {
	for key := range g.SystemRequirements {
		if strings.EqualFold(key, platform) {
			return true
		}
	}
	return false
}

// ExtractGenres normalises a loosely typed genre attribute into a tag list.
// A single string becomes a one-element list; in a list, entries that are
// not non-empty strings are skipped.
func ExtractGenres(raw any) []string {
	genres := []string{}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			genres = append(genres, v)
		}
	case []string:
		for _, g := range v {
			if strings.TrimSpace(g) != "" {
				genres = append(genres, g)
			}
		}
	case []any:
		for _, item := range v {
			if g, ok := item.(string); ok && strings.TrimSpace(g) != "" {
				genres = append(genres, g)
			}
		}
	}

	return genres
}

// ExtractStrings pulls a string list out of an attribute bag
func ExtractStrings(bag map[string]any, key string) []string {
	if bag == nil {
		return []string{}
	}
	return ExtractGenres(bag[key])
}

// FromDocument moves genre, tags and features out of a metadata document
// into the explicit tag fields, keeping the remaining keys as metadata.
func (g *Game) FromDocument(doc map[string]any) {
	g.Genres = ExtractStrings(doc, "genre")
	g.Tags = ExtractStrings(doc, "tags")
	g.Features = ExtractStrings(doc, "features")

	rest := make(map[string]any)
	for k, v := range doc {
		switch k {
		case "genre", "tags", "features":
			continue
		}
		rest[k] = v
	}
	if len(rest) > 0 {
		g.Metadata = rest
	}
}

// Document rebuilds the metadata document as clients expect it, with
// genre, tags and features alongside any other attributes. It is nil when
// the game carries no attributes at all.
func (g *Game) Document() map[string]any {
	doc := make(map[string]any, len(g.Metadata)+3)
	for k, v := range g.Metadata {
		doc[k] = v
	}
	if len(g.Genres) > 0 {
		doc["genre"] = g.Genres
	}
	if len(g.Tags) > 0 {
		doc["tags"] = g.Tags
	}
	if len(g.Features) > 0 {
		doc["features"] = g.Features
	}
	if len(doc) == 0 {
		return nil
	}
	return doc
}
