// internal/interfaces/http/handlers/orders.go
package handlers

import (
	"context"
	"net/http"

	"github.com/estim-games/estim-api/internal/domain/order"
	"github.com/estim-games/estim-api/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// OrderService is the checkout side used by the order handler
type OrderService interface {
	Checkout(ctx context.Context, userID uint) (*order.Order, error)
	History(ctx context.Context, userID uint) ([]order.Order, error)
}

// OrderHandler handles checkout and order history endpoints
type OrderHandler struct {
	orders OrderService
	logger logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// Checkout handles POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	placed, err := h.orders.Checkout(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot check out an empty cart",
			})
			return
		}
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"request_id": middleware.GetRequestID(c),
		}).Error("Checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process checkout",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase completed successfully",
		"data":    placed,
	})
}

// History handles GET /orders/history
func (h *OrderHandler) History(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	orders, err := h.orders.History(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load order history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order history retrieved successfully",
		"data": gin.H{
			"orders":       orders,
			"total_orders": len(orders),
		},
	})
}
