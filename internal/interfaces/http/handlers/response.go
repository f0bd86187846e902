// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// pageFromQuery reads skip and limit. A missing or malformed limit takes
// defaultLimit; a malformed skip counts as zero.
func pageFromQuery(c *gin.Context, defaultLimit int) catalog.Page {
	skip, _ := queryInt(c, "skip")
	return catalog.Page{
		Skip:  skip,
		Limit: limitFromQuery(c, defaultLimit),
	}.Normalize()
}

func limitFromQuery(c *gin.Context, defaultLimit int) int {
	if limit, ok := queryInt(c, "limit"); ok {
		return limit
	}
	return defaultLimit
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// respondListing writes a listing with its pagination and, when the listing
// is degraded, the failure kind
func respondListing[T any](c *gin.Context, page catalog.Page, result catalog.Result[T]) {
	body := gin.H{
		"data": result.Games,
		"pagination": gin.H{
			"skip":  page.Skip,
			"limit": page.Limit,
			"count": len(result.Games),
		},
	}
	if !result.OK() {
		body["failure"] = result.Failure
	}

	c.JSON(http.StatusOK, body)
}
