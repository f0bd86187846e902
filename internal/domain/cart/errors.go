package cart

import "github.com/pkg/errors"

var (
	ErrInvalidGameID = errors.New("invalid game id")
	ErrGameNotFound  = errors.New("game not found or not published")
	ErrAlreadyInCart = errors.New("game already in cart")
	ErrNotInCart     = errors.New("game not in cart")
	ErrNegativePrice = errors.New("game has a negative price")
	ErrInvalidOwner  = errors.New("cart owner is required")
)
