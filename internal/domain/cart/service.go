// internal/domain/cart/service.go
package cart

import (
	"context"
	"strings"

	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// GameLookup resolves published games
type GameLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Game, error)
}

// Service handles cart business logic
type Service struct {
	store  Store
	games  GameLookup
	logger logrus.FieldLogger
}

// NewService creates a new cart service
func NewService(store Store, games GameLookup, logger logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		games:  games,
		logger: logger,
	}
}

// ParseGameID validates a raw game identifier and returns its canonical form
func ParseGameID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidGameID
	}
	return id, nil
}

// AddGame puts a published game in the owner's cart, snapshotting its title
// and current price
func (s *Service) AddGame(ctx context.Context, owner, rawGameID string) (*Cart, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}

	id, err := ParseGameID(rawGameID)
	if err != nil {
		return nil, err
	}

	game, err := s.games.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, errors.Wrap(err, "failed to resolve game")
	}

	if game.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	c, err := s.store.Update(ctx, owner, func(c *Cart) error {
		if !c.Add(id.String(), game.Title, game.Price) {
			return ErrAlreadyInCart
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"owner":   owner,
		"game_id": id.String(),
	}).Debug("Game added to cart")

	return c, nil
}

// RemoveGame drops a game from the owner's cart
func (s *Service) RemoveGame(ctx context.Context, owner, rawGameID string) (*Cart, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}

	id, err := ParseGameID(rawGameID)
	if err != nil {
		return nil, err
	}

	return s.store.Update(ctx, owner, func(c *Cart) error {
		if !c.Remove(id.String()) {
			return ErrNotInCart
		}
		return nil
	})
}

// Get returns the owner's cart
func (s *Service) Get(ctx context.Context, owner string) (*Cart, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}
	return s.store.Load(ctx, owner)
}

// Total returns the sum of the owner's cart
func (s *Service) Total(ctx context.Context, owner string) (decimal.Decimal, error) {
	c, err := s.Get(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Total(), nil
}

// Clear empties the owner's cart
func (s *Service) Clear(ctx context.Context, owner string) error {
	if owner == "" {
		return ErrInvalidOwner
	}
	return s.store.Delete(ctx, owner)
}

// Settle removes the given games from the owner's cart once they have been
// bought. Lines added after the purchase snapshot are kept.
func (s *Service) Settle(ctx context.Context, owner string, gameIDs []string) error {
	if owner == "" {
		return ErrInvalidOwner
	}

	_, err := s.store.Update(ctx, owner, func(c *Cart) error {
		for _, id := range gameIDs {
			c.Remove(id)
		}
		return nil
	})
	return err
}

// Merge moves the lines of one cart into another, typically a guest cart
// into the user's cart on login. Games already in the target are skipped.
// The source cart is deleted afterwards. It returns the number of lines moved.
func (s *Service) Merge(ctx context.Context, from, to string) (int, error) {
	if from == "" || to == "" {
		return 0, ErrInvalidOwner
	}
	if from == to {
		return 0, nil
	}

	source, err := s.store.Load(ctx, from)
	if err != nil {
		return 0, err
	}
	if source.Len() == 0 {
		return 0, nil
	}

	moved := 0
	_, err = s.store.Update(ctx, to, func(c *Cart) error {
		moved = 0
		for _, line := range source.Lines {
			if c.Contains(line.GameID) {
				continue
			}
			c.Lines = append(c.Lines, line)
			moved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.store.Delete(ctx, from); err != nil {
		return moved, err
	}

	s.logger.WithFields(logrus.Fields{
		"from":  from,
		"to":    to,
		"moved": moved,
	}).Info("Merged guest cart")

	return moved, nil
}
