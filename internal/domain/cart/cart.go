// internal/domain/cart/cart.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one prospective purchase. Title and price are captured when the
// game is added and never refreshed.
type Line struct {
	GameID    string          `json:"game_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	AddedAt   time.Time       `json:"added_at"`
}

// Cart is an insertion ordered list of lines with at most one line per game
type Cart struct {
	Lines []Line `json:"lines"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Lines: []Line{}}
}

// Add appends a line for gameID. It returns false and leaves the cart
// untouched when the game is already present.
func (c *Cart) Add(gameID, title string, unitPrice decimal.Decimal) bool {
	if c.Contains(gameID) {
		return false
	}

	c.Lines = append(c.Lines, Line{
		GameID:    gameID,
		Title:     title,
		UnitPrice: unitPrice,
		AddedAt:   time.Now().UTC(),
	})
	return true
}

// Remove deletes the line for gameID, reporting whether one was found
func (c *Cart) Remove(gameID string) bool {
	for i := range c.Lines {
		if c.Lines[i].GameID == gameID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Total sums the unit prices of all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice)
	}
	return total
}

// Clear removes every line
func (c *Cart) Clear() {
	c.Lines = []Line{}
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.Lines)
}

// Contains reports whether the cart has a line for gameID
func (c *Cart) Contains(gameID string) bool {
	for _, line := range c.Lines {
		if line.GameID == gameID {
			return true
		}
	}
	return false
}

func (c *Cart) clone() *Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return &Cart{Lines: lines}
}
