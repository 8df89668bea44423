package cart

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Carts keeps one cart per browser session on top of a Store.
type Carts struct {
	store Store
}

func NewCarts(store Store) *Carts {
	return &Carts{store: store}
}

// Load returns the session's cart. Missing and corrupt carts come back empty;
// store failures are returned so callers never overwrite a cart they could not read.
func (c *Carts) Load(ctx context.Context, sessionID string) (State, error) {
	data, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return Empty(), fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	state, err := Unmarshal(data)
	if err != nil {
		log.WithError(err).WithField("session", sessionID).Warn("Discarding corrupt cart")
		return Empty(), nil
	}
	return state, nil
}

// Apply loads the session's cart, applies one action and saves the result.
func (c *Carts) Apply(ctx context.Context, sessionID string, action Action) (State, error) {
	current, err := c.Load(ctx, sessionID)
	if err != nil {
		return current, err
	}
	state := Reduce(current, action)
	if state.IsEmpty() {
		return state, c.store.Delete(ctx, sessionID)
	}
	data, err := Marshal(state)
	if err != nil {
		return state, err
	}
	return state, c.store.Save(ctx, sessionID, data)
}

func (c *Carts) Clear(ctx context.Context, sessionID string) error {
	return c.store.Delete(ctx, sessionID)
}
