package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the notifications collection name.
const Collection = "notifications"

// Category classifies a notification for the recipient's view.
type Category string

const (
	CategoryComplaint Category = "complaint"
	CategoryLostFound Category = "lostfound"
	CategoryMatch     Category = "match"
	CategoryInfo      Category = "info"
)

// Notification is one in-app message for a single recipient. Read flips to
// true exactly once, by the recipient's own mark-read action, and never
// reverts.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID string             `bson:"recipient_id" json:"recipient_id"`
	Message     string             `bson:"message" json:"message"`
	Category    Category           `bson:"category" json:"category"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func (n Notification) RecordID() primitive.ObjectID { return n.ID }

func (n Notification) RecordCreated() time.Time { return n.CreatedAt }
