// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the order status
type Status string

// StatusCompleted marks a paid order. Games are digital, so there is no
// fulfilment step after payment.
const StatusCompleted Status = "completed"

// Order is a completed purchase of the games in a user's cart
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Status      Status          `gorm:"not null;size:20;default:'completed'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Currency    string          `gorm:"size:3;default:'USD'" json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is one game bought in an order, priced as it was in the cart
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	GameID    string          `gorm:"not null;size:36;index" json:"game_id"`
	Title     string          `gorm:"not null;size:255" json:"title"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// NewOrderNumber generates a unique order number.
// Format: ORD-YYYYMMDD-XXXXXXXX
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// GameIDs lists the games bought in the order
func (o *Order) GameIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.GameID)
	}
	return ids
}
