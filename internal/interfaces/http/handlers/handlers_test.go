package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRepo serves a fixed set of published games
type stubRepo struct {
	games []catalog.Game
	err   error
	last  catalog.Query
}

func (s *stubRepo) FindPublished(ctx context.Context, q catalog.Query) ([]catalog.Game, error) {
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	games := make([]catalog.Game, 0, len(s.games))
	for _, g := range s.games {
		if g.ID != q.ExcludeID {
			games = append(games, g)
		}
	}
	if q.Limit > 0 {
		start := min(q.Offset, len(games))
		end := start + min(q.Limit, len(games)-start)
		games = games[start:end]
	}
	return games, nil
}

func (s *stubRepo) GetPublished(ctx context.Context, id uuid.UUID) (*catalog.Game, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.games {
		if s.games[i].ID == id {
			return &s.games[i], nil
		}
	}
	return nil, catalog.ErrGameNotFound
}

func (s *stubRepo) CountPublished(ctx context.Context) (int64, error) {
	return int64(len(s.games)), s.err
}

func testGame(title, price string, genres ...string) catalog.Game {
	return catalog.Game{
		ID:            uuid.New(),
		Title:         title,
		Price:         decimal.RequireFromString(price),
		BasePrice:     decimal.RequireFromString(price),
		IsPublished:   true,
		AverageRating: 4.5,
		Genres:        genres,
	}
}

func do(r http.Handler, method, path string, body io.Reader, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range mutate {
		fn(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type listingBody struct {
	Data       []map[string]any `json:"data"`
	Pagination struct {
		Skip  int `json:"skip"`
		Limit int `json:"limit"`
		Count int `json:"count"`
	} `json:"pagination"`
	Failure string `json:"failure"`
}
