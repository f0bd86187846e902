// internal/domain/catalog/repository.go
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ordering selects the sort applied to a catalog query
type Ordering int

const (
	// OrderByRating sorts by rating, best first, then title.
	OrderByRating Ordering = iota
	// OrderByPopularity sorts by rating, then download count.
	OrderByPopularity
	// OrderByReleaseDate sorts newest release first.
	OrderByReleaseDate
	// OrderByCreated sorts most recently added first.
	OrderByCreated
	// OrderByReviews sorts by rating, then review count.
	OrderByReviews
	// OrderByRatingAsc sorts by rating, worst first, then title.
	OrderByRatingAsc
	// OrderByPriceAsc sorts cheapest first, then title.
	OrderByPriceAsc
	// OrderByPriceDesc sorts most expensive first, then title.
	OrderByPriceDesc
)

func (o Ordering) clause() string {
	switch o {
	case OrderByPopularity:
		return "average_rating DESC, download_count DESC"
	case OrderByReviews:
		return "average_rating DESC, review_count DESC, title ASC"
	case OrderByRatingAsc:
		return "average_rating ASC, title ASC"
	case OrderByPriceAsc:
		return "price ASC, title ASC"
	case OrderByPriceDesc:
		return "price DESC, title ASC"
	case OrderByReleaseDate:
		return "release_date DESC"
	case OrderByCreated:
		return "created_at DESC"
	default:
		return "average_rating DESC, title ASC"
	}
}

// likeEscaper makes a search term match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Query describes a read over published games. A zero Limit means no limit.
type Query struct {
	Term      string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	OnSale    bool
	Released  bool
	ExcludeID uuid.UUID
	OrderBy   Ordering
	Offset    int
	Limit     int
}

// Repository is the read side of the game record store
type Repository interface {
	FindPublished(ctx context.Context, q Query) ([]Game, error)
	GetPublished(ctx context.Context, id uuid.UUID) (*Game, error)
	CountPublished(ctx context.Context) (int64, error)
}

// GormRepository reads games through GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM backed repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// FindPublished runs q against the games table
func (r *GormRepository) FindPublished(ctx context.Context, q Query) ([]Game, error) {
	query := r.db.WithContext(ctx).Model(&Game{}).Where("is_published = ?", true)

	if term := strings.TrimSpace(q.Term); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(short_description) LIKE ? ESCAPE '\')`, like, like, like)
	}

	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}

	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}

	if q.MinRating != nil {
		query = query.Where("average_rating >= ?", *q.MinRating)
	}

	if q.OnSale {
		query = query.Where("price < base_price")
	}

	if q.Released {
		query = query.Where("release_date IS NOT NULL")
	}

	if q.ExcludeID != uuid.Nil {
		query = query.Where("id <> ?", q.ExcludeID)
	}

	query = query.Order(q.OrderBy.clause())

	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}

	var games []Game
	if err := query.Find(&games).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query games")
	}

	return games, nil
}

// GetPublished loads one published game
func (r *GormRepository) GetPublished(ctx context.Context, id uuid.UUID) (*Game, error) {
	var game Game
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_published = ?", id, true).
		First(&game)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, errors.Wrapf(result.Error, "failed to load game %s", id)
	}

	return &game, nil
}

// CountPublished counts the games eligible for listing
func (r *GormRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Game{}).Where("is_published = ?", true).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count games")
	}
	return count, nil
}
