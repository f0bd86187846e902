// internal/domain/order/service.go
package order

import (
	"context"
	"time"

	"github.com/estim-games/estim-api/internal/domain/cart"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CartSource is the part of the cart service checkout depends on
type CartSource interface {
	Get(ctx context.Context, owner string) (*cart.Cart, error)
	Settle(ctx context.Context, owner string, gameIDs []string) error
}

// Service handles checkout and order history
type Service struct {
	db     *gorm.DB
	carts  CartSource
	logger logrus.FieldLogger
}

// NewService creates a new order service
func NewService(db *gorm.DB, carts CartSource, logger logrus.FieldLogger) *Service {
	return &Service{
		db:     db,
		carts:  carts,
		logger: logger,
	}
}

// Checkout turns the user's cart into a completed order. The order and its
// items are written in one transaction; the bought games then leave the cart.
func (s *Service) Checkout(ctx context.Context, userID uint) (*Order, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}

	owner := cart.UserOwner(userID)
	current, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve cart")
	}
	if current.Len() == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	order := Order{
		OrderNumber: NewOrderNumber(now),
		UserID:      userID,
		Status:      StatusCompleted,
		TotalAmount: current.Total(),
		Currency:    "USD",
		Items:       make([]OrderItem, 0, current.Len()),
	}
	for _, line := range current.Lines {
		order.Items = append(order.Items, OrderItem{
			GameID:    line.GameID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	if err := s.carts.Settle(ctx, owner, order.GameIDs()); err != nil {
		// The order stands even when the cart cannot be cleared.
		s.logger.WithError(err).WithField("order_number", order.OrderNumber).Warn("Failed to clear cart after checkout")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"order_number": order.OrderNumber,
		"items":        len(order.Items),
		"total":        order.TotalAmount.StringFixed(2),
	}).Info("Checkout completed")

	return &order, nil
}

// History lists the user's orders, most recent first
func (s *Service) History(ctx context.Context, userID uint) ([]Order, error) {
	orders := []Order{}
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load orders for user %d", userID)
	}
	return orders, nil
}
