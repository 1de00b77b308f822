package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"CommunityPortal/internal/live"
	"CommunityPortal/internal/store"
)

// Hub creates, delivers, and tracks read-state of notifications per
// recipient.
type Hub struct {
	st     store.Store
	logger *zap.Logger
}

// NewHub creates a new Hub.
func NewHub(st store.Store, logger *zap.Logger) *Hub {
	return &Hub{st: st, logger: logger}
}

// Create appends a new unread notification for the recipient. Delivery is
// best-effort: a store failure is logged and never surfaced to the caller,
// so the operation that triggered the notification is never failed by it.
func (h *Hub) Create(ctx context.Context, recipientID, message string, category Category) {
	n := Notification{
		RecipientID: recipientID,
		Message:     message,
		Category:    category,
		Read:        false,
		CreatedAt:   time.Now(),
	}
	if _, err := h.st.Insert(ctx, Collection, n); err != nil {
		h.logger.Warn("notification write failed",
			zap.String("recipient", recipientID),
			zap.String("category", string(category)),
			zap.Error(err))
	}
}

// Subscribe delivers the recipient's live notification projection, newest
// first. The caller owns the handle and must cancel it on teardown.
func (h *Hub) Subscribe(recipientID string, onUpdate func([]Notification)) *live.Handle {
	return live.Watch[Notification](h.st, Collection, bson.M{"recipient_id": recipientID}, h.logger, onUpdate)
}

// List returns a point-in-time view of the recipient's notifications,
// newest first.
func (h *Hub) List(ctx context.Context, recipientID string) ([]Notification, error) {
	docs, err := h.st.ReadOnce(ctx, Collection, bson.M{"recipient_id": recipientID})
	if err != nil {
		return nil, err
	}
	records, err := store.DecodeAll[Notification](docs)
	if err != nil {
		return nil, err
	}
	return live.Project(records), nil
}

// MarkAllRead flips every unread notification for the recipient in one
// atomic batch, so a concurrent subscriber never sees the flip half applied.
// Idempotent: with nothing unread it does no write at all.
func (h *Hub) MarkAllRead(ctx context.Context, recipientID string) error {
	docs, err := h.st.ReadOnce(ctx, Collection, bson.M{"recipient_id": recipientID, "read": false})
	if err != nil {
		return err
	}
	unread, err := store.DecodeAll[Notification](docs)
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}
	ops := make([]store.UpdateOp, 0, len(unread))
	for _, n := range unread {
		ops = append(ops, store.UpdateOp{ID: n.ID, Fields: bson.M{"read": true}})
	}
	return h.st.BatchUpdate(ctx, Collection, ops)
}

// MarkOneRead flips a single notification to read, scoped to the recipient:
// a notification belonging to anyone else reads as not found, so only the
// recipient's own mark-read action can mutate it. Re-flipping an already
// read notification has no observable effect.
func (h *Hub) MarkOneRead(ctx context.Context, recipientID string, id primitive.ObjectID) error {
	docs, err := h.st.ReadOnce(ctx, Collection, bson.M{"_id": id, "recipient_id": recipientID})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return store.ErrNotFound
	}
	return h.st.Update(ctx, Collection, id, bson.M{"read": true})
}
