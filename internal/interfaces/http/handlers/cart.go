// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/estim-games/estim-api/internal/domain/cart"
	"github.com/estim-games/estim-api/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReceiptRenderer turns a cart into a printable document
type ReceiptRenderer interface {
	GenerateReceipt(c *cart.Cart) (*bytes.Buffer, error)
}

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	cartService *cart.Service
	receipts    ReceiptRenderer
	logger      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, receipts ReceiptRenderer, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		receipts:    receipts,
		logger:      logger,
	}
}

// CartResponse is the JSON view of a cart
type CartResponse struct {
	Items []cart.Line     `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items: c.Lines,
		Count: c.Len(),
		Total: c.Total(),
	}
}

// GetCart handles GET /shopping_cart
func (h *CartHandler) GetCart(c *gin.Context) {
	current, err := h.cartService.Get(c.Request.Context(), middleware.GetCartOwner(c))
	if err != nil {
		h.fail(c, "get", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    newCartResponse(current),
	})
}

// AddGame handles POST /shopping_cart/items/:game_id
func (h *CartHandler) AddGame(c *gin.Context) {
	updated, err := h.cartService.AddGame(c.Request.Context(), middleware.GetCartOwner(c), c.Param("game_id"))
	if err != nil {
		h.fail(c, "add", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game added to cart successfully",
		"data":    newCartResponse(updated),
	})
}

// RemoveGame handles DELETE /shopping_cart/items/:game_id
func (h *CartHandler) RemoveGame(c *gin.Context) {
	updated, err := h.cartService.RemoveGame(c.Request.Context(), middleware.GetCartOwner(c), c.Param("game_id"))
	if err != nil {
		h.fail(c, "remove", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game removed from cart successfully",
		"data":    newCartResponse(updated),
	})
}

// GetTotal handles GET /shopping_cart/total
func (h *CartHandler) GetTotal(c *gin.Context) {
	total, err := h.cartService.Total(c.Request.Context(), middleware.GetCartOwner(c))
	if err != nil {
		h.fail(c, "total", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart total calculated successfully",
		"data":    gin.H{"total": total},
	})
}

// ClearCart handles DELETE /shopping_cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetCartOwner(c)); err != nil {
		h.fail(c, "clear", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// DownloadReceipt handles GET /shopping_cart/receipt
func (h *CartHandler) DownloadReceipt(c *gin.Context) {
	current, err := h.cartService.Get(c.Request.Context(), middleware.GetCartOwner(c))
	if err != nil {
		h.fail(c, "receipt", err)
		return
	}

	if current.Len() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
		return
	}

	pdfBuffer, err := h.receipts.GenerateReceipt(current)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate receipt")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("estim-receipt-%s.pdf", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// fail maps cart errors to HTTP statuses
func (h *CartHandler) fail(c *gin.Context, operation string, err error) {
	status := http.StatusInternalServerError
	message := "Cart operation failed"

	switch {
	case errors.Is(err, cart.ErrInvalidGameID):
		status, message = http.StatusBadRequest, "Invalid game ID"
	case errors.Is(err, cart.ErrGameNotFound):
		status, message = http.StatusNotFound, "Game not found or not published"
	case errors.Is(err, cart.ErrAlreadyInCart):
		status, message = http.StatusBadRequest, "Game already in cart"
	case errors.Is(err, cart.ErrNotInCart):
		status, message = http.StatusNotFound, "Game not in cart"
	case errors.Is(err, cart.ErrNegativePrice):
		status, message = http.StatusUnprocessableEntity, "Game cannot be sold at its current price"
	case errors.Is(err, cart.ErrInvalidOwner):
		status, message = http.StatusBadRequest, "No cart session"
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"operation":  operation,
			"request_id": middleware.GetRequestID(c),
		}).Error("Cart operation failed")
	}

	c.JSON(status, gin.H{
		"error": message,
	})
}
