package order

import "github.com/pkg/errors"

var (
	ErrEmptyCart   = errors.New("cannot check out an empty cart")
	ErrInvalidUser = errors.New("checkout requires a signed in user")
)
