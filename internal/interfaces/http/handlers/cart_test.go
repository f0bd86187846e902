package handlers

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/estim-games/estim-api/internal/domain/cart"
	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/estim-games/estim-api/internal/interfaces/http/middleware"
	"github.com/estim-games/estim-api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionCookie = "estim_session"

type stubReceipts struct {
	rendered *cart.Cart
	err      error
}

func (s *stubReceipts) GenerateReceipt(c *cart.Cart) (*bytes.Buffer, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.rendered = c
	return bytes.NewBufferString("%PDF-1.4 receipt"), nil
}

func newCartRouter(games []catalog.Game, receipts ReceiptRenderer) *gin.Engine {
	catalogService := catalog.NewService(&stubRepo{games: games}, logger.Discard())
	h := NewCartHandler(cart.NewService(cart.NewMemoryStore(), catalogService, logger.Discard()), receipts, logger.Discard())

	r := gin.New()
	sc := r.Group("/shopping_cart", middleware.CartSession(middleware.SessionConfig{
		CookieName: testSessionCookie,
		MaxAge:     time.Hour,
	}))
	sc.GET("", h.GetCart)
	sc.GET("/total", h.GetTotal)
	sc.GET("/receipt", h.DownloadReceipt)
	sc.POST("/items/:game_id", h.AddGame)
	sc.DELETE("/items/:game_id", h.RemoveGame)
	sc.DELETE("/clear", h.ClearCart)
	return r
}

func withSession(id string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: id})
	}
}

type cartBody struct {
	Error string `json:"error"`
	Data  struct {
		Items []cart.Line     `json:"items"`
		Count int             `json:"count"`
		Total decimal.Decimal `json:"total"`
	} `json:"data"`
}

func TestCartHandler_Scenario(t *testing.T) {
	g1 := testGame("Stardew Valley", "20.00", "Simulation")
	g2 := testGame("Hades", "15.00", "Roguelike")
	r := newCartRouter([]catalog.Game{g1, g2}, &stubReceipts{})
	session := withSession(uuid.NewString())

	w := do(r, http.MethodPost, "/shopping_cart/items/"+g1.ID.String(), nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/shopping_cart/items/"+g2.ID.String(), nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[cartBody](t, do(r, http.MethodGet, "/shopping_cart", nil, session))
	assert.Equal(t, 2, body.Data.Count)
	assert.True(t, body.Data.Total.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, "Stardew Valley", body.Data.Items[0].Title)
	assert.Equal(t, "Hades", body.Data.Items[1].Title)

	w = do(r, http.MethodDelete, "/shopping_cart/items/"+g1.ID.String(), nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[cartBody](t, do(r, http.MethodGet, "/shopping_cart/total", nil, session))
	assert.True(t, body.Data.Total.Equal(decimal.NewFromInt(15)))

	w = do(r, http.MethodDelete, "/shopping_cart/clear", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[cartBody](t, do(r, http.MethodGet, "/shopping_cart", nil, session))
	assert.Equal(t, 0, body.Data.Count)
	assert.NotNil(t, body.Data.Items)
	assert.True(t, body.Data.Total.IsZero())
}

func TestCartHandler_ErrorStatuses(t *testing.T) {
	g := testGame("Celeste", "19.99", "Platformer")
	r := newCartRouter([]catalog.Game{g}, &stubReceipts{})
	session := withSession(uuid.NewString())

	w := do(r, http.MethodPost, "/shopping_cart/items/"+g.ID.String(), nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"duplicate add", http.MethodPost, "/shopping_cart/items/" + g.ID.String(), http.StatusBadRequest},
		{"unknown game", http.MethodPost, "/shopping_cart/items/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id on add", http.MethodPost, "/shopping_cart/items/not-a-uuid", http.StatusBadRequest},
		{"remove absent", http.MethodDelete, "/shopping_cart/items/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id on remove", http.MethodDelete, "/shopping_cart/items/42", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, nil, session)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decode[cartBody](t, w).Error)
		})
	}

	body := decode[cartBody](t, do(r, http.MethodGet, "/shopping_cart", nil, session))
	assert.Equal(t, 1, body.Data.Count)
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	g := testGame("Celeste", "19.99", "Platformer")
	r := newCartRouter([]catalog.Game{g}, &stubReceipts{})
	alice := withSession(uuid.NewString())
	bob := withSession(uuid.NewString())

	do(r, http.MethodPost, "/shopping_cart/items/"+g.ID.String(), nil, alice)

	assert.Equal(t, 1, decode[cartBody](t, do(r, http.MethodGet, "/shopping_cart", nil, alice)).Data.Count)
	assert.Equal(t, 0, decode[cartBody](t, do(r, http.MethodGet, "/shopping_cart", nil, bob)).Data.Count)

	w := do(r, http.MethodPost, "/shopping_cart/items/"+g.ID.String(), nil, bob)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartHandler_IssuesSessionCookie(t *testing.T) {
	r := newCartRouter(nil, &stubReceipts{})

	w := do(r, http.MethodGet, "/shopping_cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), testSessionCookie+"=")
}

func TestCartHandler_Receipt(t *testing.T) {
	g := testGame("Hades", "24.99", "Roguelike")
	receipts := &stubReceipts{}
	r := newCartRouter([]catalog.Game{g}, receipts)
	session := withSession(uuid.NewString())

	w := do(r, http.MethodGet, "/shopping_cart/receipt", nil, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	do(r, http.MethodPost, "/shopping_cart/items/"+g.ID.String(), nil, session)

	w = do(r, http.MethodGet, "/shopping_cart/receipt", nil, session)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "estim-receipt-")
	assert.Equal(t, "%PDF-1.4 receipt", w.Body.String())
	require.NotNil(t, receipts.rendered)
	assert.Equal(t, 1, receipts.rendered.Len())

	receipts.err = errors.New("wkhtmltopdf not installed")
	w = do(r, http.MethodGet, "/shopping_cart/receipt", nil, session)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
