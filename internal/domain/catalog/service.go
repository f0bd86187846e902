// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// MaxLimit caps every page size.
	MaxLimit = 100
	// DefaultSearchLimit applies to search, genre search, filter and list.
	DefaultSearchLimit = 20
	// DefaultListingLimit applies to popular, recent, featured and newest.
	DefaultListingLimit = 10
	// DefaultRelatedLimit applies to related games.
	DefaultRelatedLimit = 5
	// DefaultRecommendationLimit applies to recommendations.
	DefaultRecommendationLimit = 5

	featuredMinRating = 4.0
)

// Page is an offset window. Callers pick the default limit when the
// client sends none; an explicit zero is clamped like any other value.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps Skip to zero or more and Limit to [1, MaxLimit]
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	p.Limit = max(1, min(p.Limit, MaxLimit))
	return p
}

// slice returns the window of items covered by the page. Skip may be as
// large as math.MaxInt, so the end is never computed as Skip+Limit.
func slice[T any](items []T, p Page) []T {
	start := min(p.Skip, len(items))
	end := start + min(p.Limit, len(items)-start)
	return items[start:end]
}

// FailureKind tells an empty listing apart from a degraded one
type FailureKind string

const (
	FailureNone   FailureKind = ""
	FailureStore  FailureKind = "store"
	FailureFormat FailureKind = "format"
)

// Result is the outcome of a listing operation. Games is never nil.
type Result[T any] struct {
	Games   []T
	Failure FailureKind
}

// OK reports whether the listing ran without failures
func (r Result[T]) OK() bool {
	return r.Failure == FailureNone
}

// GameSummary is the listing shape of a game
type GameSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	AverageRating float64 `json:"average_rating"`
	Description   string  `json:"description"`
}

// GameMatch is the search shape of a game, with its genres and attributes
type GameMatch struct {
	GameSummary
	Genres   []string       `json:"genres"`
	Metadata map[string]any `json:"game_metadata"`
}

// SearchParams holds the text search filters
type SearchParams struct {
	Term     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     Page
}

// FilterParams holds the multi-criteria filters. Platform keeps games whose
// system requirements name it. SortBy is one of price, rating or newest;
// anything else sorts by popularity. SortOrder "asc" flips price and rating.
type FilterParams struct {
	Genre     string
	Tags      []string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	OnSale    bool
	Platform  string
	SortBy    string
	SortOrder string
	Page      Page
}

// Service handles catalog search and listings. Listing operations never
// return errors: failures are logged and reported through Result.Failure.
type Service struct {
	repo   Repository
	logger logrus.FieldLogger
}

// NewService creates a new catalog service
func NewService(repo Repository, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get returns a single published game
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Game, error) {
	return s.repo.GetPublished(ctx, id)
}

// CountPublished returns the number of listable games
func (s *Service) CountPublished(ctx context.Context) (int64, error) {
	return s.repo.CountPublished(ctx)
}

// Search matches a term against title and descriptions within a price range
func (s *Service) Search(ctx context.Context, params SearchParams) Result[GameMatch] {
	page := params.Page.Normalize()

	games, err := s.repo.FindPublished(ctx, Query{
		Term:     params.Term,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
		OrderBy:  OrderByRating,
		Offset:   page.Skip,
		Limit:    page.Limit,
	})
	if err != nil {
		return storeFailure(s.logger, "search", err, Result[GameMatch]{})
	}

	return s.matches("search", games, false)
}

// SearchByGenre returns games having a genre tag that contains genre,
// ignoring case. All published games are filtered before paging, so page
// boundaries are over the filtered list.
func (s *Service) SearchByGenre(ctx context.Context, genre string, page Page) Result[GameMatch] {
	result := Result[GameMatch]{Games: []GameMatch{}}

	needle := strings.ToLower(strings.TrimSpace(genre))
	if needle == "" {
		return result
	}

	page = page.Normalize()

	games, err := s.repo.FindPublished(ctx, Query{OrderBy: OrderByRating})
	if err != nil {
		return storeFailure(s.logger, "search_by_genre", err, result)
	}

	filtered := make([]Game, 0, len(games))
	for _, game := range games {
		if genreContains(game.Genres, needle) {
			filtered = append(filtered, game)
		}
	}

	return s.matches("search_by_genre", slice(filtered, page), true)
}

// Popular lists games by rating, then downloads
func (s *Service) Popular(ctx context.Context, page Page) Result[GameSummary] {
	return s.listing(ctx, "popular", Query{OrderBy: OrderByPopularity}, page)
}

// Recent lists released games, latest release first
func (s *Service) Recent(ctx context.Context, page Page) Result[GameSummary] {
	return s.listing(ctx, "recent", Query{Released: true, OrderBy: OrderByReleaseDate}, page)
}

// Featured lists highly rated games
func (s *Service) Featured(ctx context.Context, page Page) Result[GameSummary] {
	minRating := featuredMinRating
	return s.listing(ctx, "featured", Query{MinRating: &minRating, OrderBy: OrderByPopularity}, page)
}

// Newest lists games most recently added to the catalog
func (s *Service) Newest(ctx context.Context, page Page) Result[GameSummary] {
	return s.listing(ctx, "newest", Query{OrderBy: OrderByCreated}, page)
}

// List lists all published games by rating
func (s *Service) List(ctx context.Context, page Page) Result[GameSummary] {
	return s.listing(ctx, "list", Query{OrderBy: OrderByRating}, page)
}

// Filter applies multiple criteria. Genre, tags and platform live in JSON
// columns, so when any is set the filtering and paging happen in memory.
func (s *Service) Filter(ctx context.Context, params FilterParams) Result[GameMatch] {
	page := params.Page.Normalize()

	query := Query{
		MinPrice:  params.MinPrice,
		MaxPrice:  params.MaxPrice,
		MinRating: params.MinRating,
		OnSale:    params.OnSale,
		OrderBy:   FilterOrdering(params.SortBy, params.SortOrder),
	}

	genre := strings.TrimSpace(params.Genre)
	tags := nonBlank(params.Tags)
	platform := strings.TrimSpace(params.Platform)
	inMemory := genre != "" || len(tags) > 0 || platform != ""
	if !inMemory {
		query.Offset = page.Skip
		query.Limit = page.Limit
	}

	games, err := s.repo.FindPublished(ctx, query)
	if err != nil {
		return storeFailure(s.logger, "filter", err, Result[GameMatch]{})
	}

	if inMemory {
		filtered := make([]Game, 0, len(games))
		for _, game := range games {
			if genre != "" && !game.HasGenre(genre) {
				continue
			}
			if !hasAllTags(&game, tags) {
				continue
			}
			if platform != "" && !game.SupportsPlatform(platform) {
				continue
			}
			filtered = append(filtered, game)
		}
		games = slice(filtered, page)
	}

	return s.matches("filter", games, true)
}

// FilterOrdering maps the filter sort options onto a catalog ordering
func FilterOrdering(sortBy, sortOrder string) Ordering {
	asc := strings.EqualFold(strings.TrimSpace(sortOrder), "asc")
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "price":
		if asc {
			return OrderByPriceAsc
		}
		return OrderByPriceDesc
	case "rating":
		if asc {
			return OrderByRatingAsc
		}
		return OrderByRating
	case "newest":
		return OrderByReleaseDate
	default:
		return OrderByReviews
	}
}

// Related lists games sharing at least one genre with the given game
func (s *Service) Related(ctx context.Context, id uuid.UUID, limit int) Result[GameMatch] {
	result := Result[GameMatch]{Games: []GameMatch{}}
	page := Page{Limit: limit}.Normalize()

	target, err := s.repo.GetPublished(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return result
		}
		return storeFailure(s.logger, "related", err, result)
	}
	if len(target.Genres) == 0 {
		return result
	}

	games, err := s.repo.FindPublished(ctx, Query{ExcludeID: id, OrderBy: OrderByRating})
	if err != nil {
		return storeFailure(s.logger, "related", err, result)
	}

	related := make([]Game, 0, page.Limit)
	for _, game := range games {
		if len(related) == page.Limit {
			break
		}
		for _, genre := range target.Genres {
			if game.HasGenre(genre) {
				related = append(related, game)
				break
			}
		}
	}

	return s.matches("related", related, true)
}

func (s *Service) listing(ctx context.Context, operation string, query Query, page Page) Result[GameSummary] {
	page = page.Normalize()
	query.Offset = page.Skip
	query.Limit = page.Limit

	result := Result[GameSummary]{Games: []GameSummary{}}

	games, err := s.repo.FindPublished(ctx, query)
	if err != nil {
		return storeFailure(s.logger, operation, err, result)
	}

	for i := range games {
		summary, err := summarize(&games[i])
		if err != nil {
			s.logger.WithError(err).WithField("operation", operation).Error("Failed to format game")
			result.Failure = FailureFormat
			return result
		}
		result.Games = append(result.Games, summary)
	}

	return result
}

// matches formats games for search responses. With skipBad, malformed
// records are skipped; otherwise formatting stops at the first one.
func (s *Service) matches(operation string, games []Game, skipBad bool) Result[GameMatch] {
	result := Result[GameMatch]{Games: make([]GameMatch, 0, len(games))}

	for i := range games {
		summary, err := summarize(&games[i])
		if err != nil {
			s.logger.WithError(err).WithField("operation", operation).Error("Failed to format game")
			result.Failure = FailureFormat
			if skipBad {
				continue
			}
			return result
		}

		genres := games[i].Genres
		if genres == nil {
			genres = []string{}
		}

		result.Games = append(result.Games, GameMatch{
			GameSummary: summary,
			Genres:      genres,
			Metadata:    games[i].Document(),
		})
	}

	return result
}

func storeFailure[T any](logger logrus.FieldLogger, operation string, err error, result Result[T]) Result[T] {
	logger.WithError(err).WithField("operation", operation).Error("Catalog query failed")
	if result.Games == nil {
		result.Games = []T{}
	}
	result.Failure = FailureStore
	return result
}

func summarize(g *Game) (GameSummary, error) {
	if g.ID == uuid.Nil {
		return GameSummary{}, ErrMalformedRecord
	}

	return GameSummary{
		ID:            g.ID.String(),
		Title:         g.Title,
		Price:         g.Price.InexactFloat64(),
		AverageRating: g.AverageRating,
		Description:   g.ShortDescription,
	}, nil
}

func genreContains(genres []string, needle string) bool {
	for _, genre := range genres {
		if genre != "" && strings.Contains(strings.ToLower(genre), needle) {
			return true
		}
	}
	return false
}

func hasAllTags(g *Game, tags []string) bool {
	for _, tag := range tags {
		if !g.HasTag(tag) {
			return false
		}
	}
	return true
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParsePrice parses a price filter. Blank or malformed input yields nil so
// the filter is simply not applied.
func ParsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &price
}

// ParseRating parses a rating filter the same way as ParsePrice
func ParseRating(raw string) *float64 {
	price := ParsePrice(raw)
	if price == nil {
		return nil
	}
	rating := price.InexactFloat64()
	return &rating
}
