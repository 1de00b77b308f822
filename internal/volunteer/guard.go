package volunteer

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"CommunityPortal/internal/store"
)

// Guard enforces at most one registration per (user, event) pair at write
// time. The store carries no uniqueness constraint, so the check-then-act
// window remains: two concurrent attempts for the same pair can both pass
// the check and produce a duplicate. Known open issue, not silently fixed.
type Guard struct {
	st store.Store
}

// NewGuard creates a new Guard.
func NewGuard(st store.Store) *Guard {
	return &Guard{st: st}
}

// Register writes the registration unless one already exists for the same
// (user, event) pair. A duplicate is a normal rejection, not an error.
func (g *Guard) Register(ctx context.Context, reg Registration) (bool, error) {
	if reg.UserID == "" || reg.EventID == "" {
		return false, errors.New("user and event are required")
	}

	docs, err := g.st.ReadOnce(ctx, Collection, bson.M{"user_id": reg.UserID, "event_id": reg.EventID})
	if err != nil {
		return false, err
	}
	if len(docs) > 0 {
		return false, nil
	}

	reg.CreatedAt = time.Now()
	if _, err := g.st.Insert(ctx, Collection, reg); err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns the caller's registrations.
func (g *Guard) ListByUser(ctx context.Context, userID string) ([]Registration, error) {
	docs, err := g.st.ReadOnce(ctx, Collection, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[Registration](docs)
}
