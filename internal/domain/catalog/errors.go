package catalog

import "github.com/pkg/errors"

var (
	// ErrGameNotFound is returned when a game is absent or unpublished.
	ErrGameNotFound = errors.New("game not found or not published")
	// ErrMalformedRecord is returned when a stored game cannot be presented.
	ErrMalformedRecord = errors.New("malformed game record")
)
