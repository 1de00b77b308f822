// Package workflow applies admin status changes to records and notifies the
// record's owner.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"CommunityPortal/internal/complaint"
	"CommunityPortal/internal/lostfound"
	"CommunityPortal/internal/notification"
	"CommunityPortal/internal/store"
)

// ErrUnknownStatus is returned when the requested status is not named for
// the target collection.
var ErrUnknownStatus = errors.New("unknown status")

// Target binds a collection to its named statuses and notification category.
type Target struct {
	Collection string
	Statuses   []string
	Category   notification.Category
	Label      string
}

// Any named status is assignable at any time; there is no transition graph.
var (
	LostFoundTarget = Target{
		Collection: lostfound.Collection,
		Statuses:   []string{lostfound.StatusPending, lostfound.StatusFound},
		Category:   notification.CategoryLostFound,
		Label:      "lost and found report",
	}
	ComplaintTarget = Target{
		Collection: complaint.Collection,
		Statuses:   []string{complaint.StatusSubmitted, complaint.StatusInProgress, complaint.StatusResolved},
		Category:   notification.CategoryComplaint,
		Label:      "complaint",
	}
)

func (t Target) allows(status string) bool {
	for _, s := range t.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Controller performs status mutations.
type Controller struct {
	st     store.Store
	hub    *notification.Hub
	logger *zap.Logger
}

// NewController creates a new Controller.
func NewController(st store.Store, hub *notification.Hub, logger *zap.Logger) *Controller {
	return &Controller{st: st, hub: hub, logger: logger}
}

// SetStatus updates the record's status and then notifies its owner. The two
// writes are sequential, not transactional: if the notification fails after
// the update succeeds, the status change is retained and only the
// notification is lost.
func (c *Controller) SetStatus(ctx context.Context, target Target, id primitive.ObjectID, status string) error {
	if !target.allows(status) {
		return ErrUnknownStatus
	}

	docs, err := c.st.ReadOnce(ctx, target.Collection, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return store.ErrNotFound
	}
	var record struct {
		OwnerID string `bson:"owner_id"`
	}
	if err := bson.Unmarshal(docs[0], &record); err != nil {
		return err
	}

	if err := c.st.Update(ctx, target.Collection, id, bson.M{"status": status}); err != nil {
		return err
	}

	c.hub.Create(ctx, record.OwnerID,
		fmt.Sprintf("Your %s status changed to %s", target.Label, status),
		target.Category)
	return nil
}
