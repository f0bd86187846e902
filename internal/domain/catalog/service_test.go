package catalog

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/estim-games/estim-api/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	games   []Game
	byID    map[uuid.UUID]*Game
	err     error
	getErr  error
	queries []Query
}

func (f *fakeRepo) FindPublished(ctx context.Context, q Query) ([]Game, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.games, nil
}

func (f *fakeRepo) GetPublished(ctx context.Context, id uuid.UUID) (*Game, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, ErrGameNotFound
}

func (f *fakeRepo) CountPublished(ctx context.Context) (int64, error) {
	return int64(len(f.games)), f.err
}

var firstPage = Page{Limit: DefaultSearchLimit}

func newTestService(repo Repository) *Service {
	return NewService(repo, logger.Discard())
}

func game(title string, genres ...string) Game {
	return Game{
		ID:               uuid.New(),
		Title:            title,
		ShortDescription: title + " short",
		Price:            decimal.RequireFromString("19.99"),
		IsPublished:      true,
		Genres:           genres,
	}
}

func titles[T any](items []T, title func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, title(item))
	}
	return out
}

func matchTitle(m GameMatch) string     { return m.Title }
func summaryTitle(s GameSummary) string { return s.Title }

func TestSearchByGenre_BlankGenreSkipsStore(t *testing.T) {
	for _, genre := range []string{"", "   ", "\t"} {
		repo := &fakeRepo{games: []Game{game("A", "RPG")}}
		svc := newTestService(repo)

		result := svc.SearchByGenre(context.Background(), genre, Page{})

		assert.NotNil(t, result.Games)
		assert.Empty(t, result.Games)
		assert.True(t, result.OK())
		assert.Empty(t, repo.queries, "store must not be queried for %q", genre)
	}
}

func TestSearchByGenre_CaseInsensitiveSubstring(t *testing.T) {
	repo := &fakeRepo{games: []Game{
		game("Baldur's Gate 3", "RPG", "Strategy"),
		game("Doom", "Action"),
		game("Persona 5", "Role-Playing", "JRPG"),
	}}
	svc := newTestService(repo)

	result := svc.SearchByGenre(context.Background(), "rpg", firstPage)

	require.True(t, result.OK())
	assert.Equal(t, []string{"Baldur's Gate 3", "Persona 5"}, titles(result.Games, matchTitle))

	result = svc.SearchByGenre(context.Background(), "  PLAY ", firstPage)
	assert.Equal(t, []string{"Persona 5"}, titles(result.Games, matchTitle))
}

func TestSearchByGenre_FetchesAllThenPages(t *testing.T) {
	var games []Game
	for i := 0; i < 7; i++ {
		games = append(games, game(fmt.Sprintf("RPG %d", i), "RPG"))
		games = append(games, game(fmt.Sprintf("Racer %d", i), "Racing"))
	}
	repo := &fakeRepo{games: games}
	svc := newTestService(repo)

	result := svc.SearchByGenre(context.Background(), "rpg", Page{Skip: 5, Limit: 20})

	assert.Equal(t, []string{"RPG 5", "RPG 6"}, titles(result.Games, matchTitle))
	require.Len(t, repo.queries, 1)
	assert.Equal(t, Query{OrderBy: OrderByRating}, repo.queries[0])
}

func TestSearchByGenre_SkipPastEnd(t *testing.T) {
	repo := &fakeRepo{games: []Game{game("A", "RPG")}}
	svc := newTestService(repo)

	result := svc.SearchByGenre(context.Background(), "rpg", Page{Skip: 10})

	assert.NotNil(t, result.Games)
	assert.Empty(t, result.Games)
}

func TestSearchByGenre_HugeSkip(t *testing.T) {
	repo := &fakeRepo{games: []Game{game("A", "RPG"), game("B", "RPG")}}
	svc := newTestService(repo)

	for _, skip := range []int{math.MaxInt, math.MaxInt - 5} {
		result := svc.SearchByGenre(context.Background(), "rpg", Page{Skip: skip, Limit: 20})

		assert.NotNil(t, result.Games)
		assert.Empty(t, result.Games)
		assert.True(t, result.OK())
	}
}

func TestSearchByGenre_StoreFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc := newTestService(repo)

	result := svc.SearchByGenre(context.Background(), "rpg", Page{})

	assert.NotNil(t, result.Games)
	assert.Empty(t, result.Games)
	assert.Equal(t, FailureStore, result.Failure)
}

func TestSearchByGenre_SkipsMalformedRecord(t *testing.T) {
	broken := game("Broken", "RPG")
	broken.ID = uuid.Nil
	repo := &fakeRepo{games: []Game{game("First", "RPG"), broken, game("Last", "RPG")}}
	svc := newTestService(repo)

	result := svc.SearchByGenre(context.Background(), "rpg", firstPage)

	assert.Equal(t, []string{"First", "Last"}, titles(result.Games, matchTitle))
	assert.Equal(t, FailureFormat, result.Failure)
}

func TestSearchByGenre_ResultShape(t *testing.T) {
	g := game("Cyberpunk 2077", "RPG", "Action")
	g.Price = decimal.RequireFromString("39.99")
	g.AverageRating = 4.7
	g.Features = []string{"Open World"}
	repo := &fakeRepo{games: []Game{g}}
	svc := newTestService(repo)

	result := svc.SearchByGenre(context.Background(), "rpg", firstPage)

	require.Len(t, result.Games, 1)
	m := result.Games[0]
	assert.Equal(t, g.ID.String(), m.ID)
	assert.Equal(t, 39.99, m.Price)
	assert.Equal(t, 4.7, m.AverageRating)
	assert.Equal(t, "Cyberpunk 2077 short", m.Description)
	assert.Equal(t, []string{"RPG", "Action"}, m.Genres)
	assert.Equal(t, []string{"RPG", "Action"}, m.Metadata["genre"])
	assert.Equal(t, []string{"Open World"}, m.Metadata["features"])
}

func TestSearch_BuildsQuery(t *testing.T) {
	repo := &fakeRepo{games: []Game{game("Hades")}}
	svc := newTestService(repo)
	minPrice := decimal.NewFromInt(10)
	maxPrice := decimal.NewFromInt(60)

	result := svc.Search(context.Background(), SearchParams{
		Term:     "hades",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Page:     Page{Skip: 2, Limit: 5},
	})

	require.True(t, result.OK())
	require.Len(t, repo.queries, 1)
	q := repo.queries[0]
	assert.Equal(t, "hades", q.Term)
	assert.True(t, q.MinPrice.Equal(minPrice))
	assert.True(t, q.MaxPrice.Equal(maxPrice))
	assert.Equal(t, OrderByRating, q.OrderBy)
	assert.Equal(t, 2, q.Offset)
	assert.Equal(t, 5, q.Limit)

	require.Len(t, result.Games, 1)
	assert.NotNil(t, result.Games[0].Genres)
	assert.Empty(t, result.Games[0].Genres)
	assert.Nil(t, result.Games[0].Metadata)
}

func TestSearch_ClampsPage(t *testing.T) {
	tests := []struct {
		name      string
		page      Page
		wantSkip  int
		wantLimit int
	}{
		{name: "zero limit", page: Page{}, wantSkip: 0, wantLimit: 1},
		{name: "negative skip", page: Page{Skip: -4, Limit: 3}, wantSkip: 0, wantLimit: 3},
		{name: "limit above max", page: Page{Limit: 500}, wantSkip: 0, wantLimit: MaxLimit},
		{name: "negative limit", page: Page{Limit: -1}, wantSkip: 0, wantLimit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo)

			svc.Search(context.Background(), SearchParams{Page: tt.page})

			require.Len(t, repo.queries, 1)
			assert.Equal(t, tt.wantSkip, repo.queries[0].Offset)
			assert.Equal(t, tt.wantLimit, repo.queries[0].Limit)
		})
	}
}

func TestSearch_StopsAtMalformedRecord(t *testing.T) {
	broken := game("Broken")
	broken.ID = uuid.Nil
	repo := &fakeRepo{games: []Game{game("First"), broken, game("Last")}}
	svc := newTestService(repo)

	result := svc.Search(context.Background(), SearchParams{Term: "x"})

	assert.Equal(t, []string{"First"}, titles(result.Games, matchTitle))
	assert.Equal(t, FailureFormat, result.Failure)
}

func TestSearch_StoreFailureReturnsEmptyList(t *testing.T) {
	svc := newTestService(&fakeRepo{err: errors.New("boom")})

	result := svc.Search(context.Background(), SearchParams{Term: "x"})

	assert.NotNil(t, result.Games)
	assert.Empty(t, result.Games)
	assert.Equal(t, FailureStore, result.Failure)
}

func TestListings_Queries(t *testing.T) {
	repo := &fakeRepo{games: []Game{game("A"), game("B")}}
	svc := newTestService(repo)
	ctx := context.Background()

	popular := svc.Popular(ctx, Page{Limit: DefaultListingLimit})
	recent := svc.Recent(ctx, Page{Skip: 1, Limit: 3})
	featured := svc.Featured(ctx, Page{Limit: DefaultListingLimit})
	newest := svc.Newest(ctx, Page{Limit: DefaultListingLimit})
	list := svc.List(ctx, firstPage)
	zero := svc.List(ctx, Page{})

	assert.Equal(t, []string{"A", "B"}, titles(popular.Games, summaryTitle))
	assert.Len(t, recent.Games, 2)
	assert.Len(t, featured.Games, 2)
	assert.Len(t, newest.Games, 2)
	assert.Len(t, list.Games, 2)

	assert.Len(t, zero.Games, 2)

	require.Len(t, repo.queries, 6)
	assert.Equal(t, Query{OrderBy: OrderByPopularity, Limit: DefaultListingLimit}, repo.queries[0])
	assert.Equal(t, Query{Released: true, OrderBy: OrderByReleaseDate, Offset: 1, Limit: 3}, repo.queries[1])
	require.NotNil(t, repo.queries[2].MinRating)
	assert.Equal(t, 4.0, *repo.queries[2].MinRating)
	assert.Equal(t, OrderByPopularity, repo.queries[2].OrderBy)
	assert.Equal(t, Query{OrderBy: OrderByCreated, Limit: DefaultListingLimit}, repo.queries[3])
	assert.Equal(t, Query{OrderBy: OrderByRating, Limit: DefaultSearchLimit}, repo.queries[4])
	assert.Equal(t, Query{OrderBy: OrderByRating, Limit: 1}, repo.queries[5])
}

func TestPopular_StoreFailure(t *testing.T) {
	svc := newTestService(&fakeRepo{err: errors.New("boom")})

	result := svc.Popular(context.Background(), Page{})

	assert.NotNil(t, result.Games)
	assert.Empty(t, result.Games)
	assert.Equal(t, FailureStore, result.Failure)
}

func TestFilter_InMemoryGenreAndTags(t *testing.T) {
	a := game("A", "RPG")
	a.Tags = []string{"Multiplayer", "Co-op"}
	b := game("B", "rpg")
	b.Tags = []string{"Co-op"}
	c := game("C", "Action RPG")
	c.Tags = []string{"Multiplayer", "Co-op"}
	repo := &fakeRepo{games: []Game{a, b, c}}
	svc := newTestService(repo)

	result := svc.Filter(context.Background(), FilterParams{
		Genre: "RPG",
		Tags:  []string{"co-op", " "},
		Page:  firstPage,
	})
	assert.Equal(t, []string{"A", "B"}, titles(result.Games, matchTitle))

	result = svc.Filter(context.Background(), FilterParams{
		Genre: "rpg",
		Tags:  []string{"multiplayer"},
		Page:  Page{Skip: 0, Limit: 1},
	})
	assert.Equal(t, []string{"A"}, titles(result.Games, matchTitle))

	for _, q := range repo.queries {
		assert.Zero(t, q.Limit, "in-memory filtering must fetch every candidate")
	}
}

func TestFilter_DatabasePaging(t *testing.T) {
	repo := &fakeRepo{games: []Game{game("A")}}
	svc := newTestService(repo)
	rating := 3.5

	svc.Filter(context.Background(), FilterParams{
		MinRating: &rating,
		OnSale:    true,
		Page:      Page{Skip: 4, Limit: 2},
	})

	require.Len(t, repo.queries, 1)
	q := repo.queries[0]
	assert.True(t, q.OnSale)
	assert.Equal(t, &rating, q.MinRating)
	assert.Equal(t, 4, q.Offset)
	assert.Equal(t, 2, q.Limit)
	assert.Equal(t, OrderByReviews, q.OrderBy)
}

func TestFilter_InMemoryHugeSkip(t *testing.T) {
	repo := &fakeRepo{games: []Game{game("A", "RPG"), game("B", "RPG")}}
	svc := newTestService(repo)

	result := svc.Filter(context.Background(), FilterParams{
		Genre: "rpg",
		Page:  Page{Skip: math.MaxInt - 5, Limit: 20},
	})

	assert.NotNil(t, result.Games)
	assert.Empty(t, result.Games)
	assert.True(t, result.OK())
}

func TestFilter_Platform(t *testing.T) {
	windows := game("Windows Only")
	windows.SystemRequirements = map[string]any{"windows": map[string]any{"ram": "8GB"}}
	both := game("Both")
	both.SystemRequirements = map[string]any{"Windows": "any", "linux": "any"}
	none := game("None")
	repo := &fakeRepo{games: []Game{windows, both, none}}
	svc := newTestService(repo)

	result := svc.Filter(context.Background(), FilterParams{Platform: "WINDOWS", Page: firstPage})
	assert.Equal(t, []string{"Windows Only", "Both"}, titles(result.Games, matchTitle))

	result = svc.Filter(context.Background(), FilterParams{Platform: " linux ", Page: firstPage})
	assert.Equal(t, []string{"Both"}, titles(result.Games, matchTitle))

	result = svc.Filter(context.Background(), FilterParams{Platform: "mac", Page: firstPage})
	assert.Empty(t, result.Games)

	for _, q := range repo.queries {
		assert.Zero(t, q.Limit, "platform filtering runs in memory")
	}
}

func TestFilterOrdering(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder string
		want              Ordering
	}{
		{"price", "asc", OrderByPriceAsc},
		{"PRICE", "desc", OrderByPriceDesc},
		{"price", "", OrderByPriceDesc},
		{"rating", "ASC", OrderByRatingAsc},
		{"rating", "desc", OrderByRating},
		{"newest", "asc", OrderByReleaseDate},
		{"popularity", "asc", OrderByReviews},
		{"", "", OrderByReviews},
		{"bogus", "desc", OrderByReviews},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FilterOrdering(tt.sortBy, tt.sortOrder), "%s/%s", tt.sortBy, tt.sortOrder)
	}
}

func TestFilter_PassesSortToStore(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	svc.Filter(context.Background(), FilterParams{SortBy: "price", SortOrder: "asc", Page: firstPage})
	svc.Filter(context.Background(), FilterParams{Genre: "rpg", SortBy: "newest", Page: firstPage})

	require.Len(t, repo.queries, 2)
	assert.Equal(t, OrderByPriceAsc, repo.queries[0].OrderBy)
	assert.Equal(t, OrderByReleaseDate, repo.queries[1].OrderBy)
}

func TestRelated_ZeroLimitReturnsOne(t *testing.T) {
	target := game("Target", "RPG")
	repo := &fakeRepo{
		games: []Game{game("RPG One", "RPG"), game("RPG Two", "RPG")},
		byID:  map[uuid.UUID]*Game{target.ID: &target},
	}
	svc := newTestService(repo)

	result := svc.Related(context.Background(), target.ID, 0)

	assert.Equal(t, []string{"RPG One"}, titles(result.Games, matchTitle))
}

func TestRelated(t *testing.T) {
	target := game("Target", "RPG", "Adventure")
	repo := &fakeRepo{
		games: []Game{
			game("Adventure One", "adventure"),
			game("Shooter", "FPS"),
			game("RPG One", "RPG"),
			game("RPG Two", "RPG"),
		},
		byID: map[uuid.UUID]*Game{target.ID: &target},
	}
	svc := newTestService(repo)

	result := svc.Related(context.Background(), target.ID, 2)

	assert.Equal(t, []string{"Adventure One", "RPG One"}, titles(result.Games, matchTitle))
	require.Len(t, repo.queries, 1)
	assert.Equal(t, target.ID, repo.queries[0].ExcludeID)
}

func TestRelated_UnknownGame(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	result := svc.Related(context.Background(), uuid.New(), 0)

	assert.True(t, result.OK())
	assert.Empty(t, result.Games)
}

func TestRelated_StoreFailure(t *testing.T) {
	svc := newTestService(&fakeRepo{getErr: errors.New("timeout")})

	result := svc.Related(context.Background(), uuid.New(), 0)

	assert.Equal(t, FailureStore, result.Failure)
	assert.NotNil(t, result.Games)
}

func TestParsePrice(t *testing.T) {
	assert.Nil(t, ParsePrice(""))
	assert.Nil(t, ParsePrice("  "))
	assert.Nil(t, ParsePrice("cheap"))
	assert.Nil(t, ParsePrice("1O.5"))

	price := ParsePrice(" 19.99 ")
	require.NotNil(t, price)
	assert.Equal(t, "19.99", price.String())

	rating := ParseRating("4.5")
	require.NotNil(t, rating)
	assert.Equal(t, 4.5, *rating)
	assert.Nil(t, ParseRating("high"))
}
