package lostfound

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the lost-and-found collection name.
const Collection = "lostfound_items"

// Named statuses for a lost-and-found report.
const (
	StatusPending = "Pending"
	StatusFound   = "Found"
)

// Kinds of report.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Item is one lost-and-found report. Content is owned by the submitting
// user; status is owned by an admin after submission.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     string             `bson:"owner_id" json:"owner_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Kind        string             `bson:"kind" json:"kind"` // lost or found
	Location    string             `bson:"location" json:"location"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func (i Item) RecordID() primitive.ObjectID { return i.ID }

func (i Item) RecordCreated() time.Time { return i.CreatedAt }
