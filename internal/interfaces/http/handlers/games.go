// internal/interfaces/http/handlers/games.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GameHandler handles catalog endpoints
type GameHandler struct {
	catalog *catalog.Service
	logger  logrus.FieldLogger
}

// NewGameHandler creates a new game handler
func NewGameHandler(catalogService *catalog.Service, logger logrus.FieldLogger) *GameHandler {
	return &GameHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// Search handles GET /games/search/?q=&min_price=&max_price=&skip=&limit=
func (h *GameHandler) Search(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultSearchLimit)

	result := h.catalog.Search(c.Request.Context(), catalog.SearchParams{
		Term:     c.Query("q"),
		MinPrice: catalog.ParsePrice(c.Query("min_price")),
		MaxPrice: catalog.ParsePrice(c.Query("max_price")),
		Page:     page,
	})

	respondListing(c, page, result)
}

// SearchByGenre handles GET /games/search/genre/?genre=&skip=&limit=
func (h *GameHandler) SearchByGenre(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultSearchLimit)
	respondListing(c, page, h.catalog.SearchByGenre(c.Request.Context(), c.Query("genre"), page))
}

// Popular handles GET /games/popular/
func (h *GameHandler) Popular(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultListingLimit)
	respondListing(c, page, h.catalog.Popular(c.Request.Context(), page))
}

// Recent handles GET /games/recent/
func (h *GameHandler) Recent(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultListingLimit)
	respondListing(c, page, h.catalog.Recent(c.Request.Context(), page))
}

// Featured handles GET /games/featured/
func (h *GameHandler) Featured(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultListingLimit)
	respondListing(c, page, h.catalog.Featured(c.Request.Context(), page))
}

// Newest handles GET /games/new/
func (h *GameHandler) Newest(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultListingLimit)
	respondListing(c, page, h.catalog.Newest(c.Request.Context(), page))
}

// List handles GET /games/
func (h *GameHandler) List(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultSearchLimit)
	respondListing(c, page, h.catalog.List(c.Request.Context(), page))
}

// Filter handles GET /games/filter/?genre=&tags=a,b&platform=&min_price=&max_price=&min_rating=&on_sale=&sort_by=&sort_order=
func (h *GameHandler) Filter(c *gin.Context) {
	page := pageFromQuery(c, catalog.DefaultSearchLimit)

	var tags []string
	for _, raw := range c.QueryArray("tags") {
		tags = append(tags, strings.Split(raw, ",")...)
	}

	onSale, _ := strconv.ParseBool(c.Query("on_sale"))

	result := h.catalog.Filter(c.Request.Context(), catalog.FilterParams{
		Genre:     c.Query("genre"),
		Tags:      tags,
		MinPrice:  catalog.ParsePrice(c.Query("min_price")),
		MaxPrice:  catalog.ParsePrice(c.Query("max_price")),
		MinRating: catalog.ParseRating(c.Query("min_rating")),
		OnSale:    onSale,
		Platform:  c.Query("platform"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      page,
	})

	respondListing(c, page, result)
}

// GetGame handles GET /games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid game ID",
		})
		return
	}

	game, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Game not found",
			})
			return
		}
		h.logger.WithError(err).WithField("game_id", id.String()).Error("Failed to load game")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve game",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game retrieved successfully",
		"data":    game,
	})
}

// Related handles GET /games/:id/related?limit=
func (h *GameHandler) Related(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid game ID",
		})
		return
	}

	page := catalog.Page{Limit: limitFromQuery(c, catalog.DefaultRelatedLimit)}.Normalize()
	respondListing(c, page, h.catalog.Related(c.Request.Context(), id, page.Limit))
}

// Recommendations handles GET /recommendations. Suggestions are the most
// popular games until there is purchase history to learn from.
func (h *GameHandler) Recommendations(c *gin.Context) {
	page := catalog.Page{Limit: catalog.DefaultRecommendationLimit}.Normalize()
	respondListing(c, page, h.catalog.Popular(c.Request.Context(), page))
}
