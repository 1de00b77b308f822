package complaint

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the complaints collection name.
const Collection = "complaints"

// Named statuses for a complaint. Any of them is admin-assignable at any
// time; there is no enforced ordering between them.
const (
	StatusSubmitted  = "Submitted"
	StatusInProgress = "InProgress"
	StatusResolved   = "Resolved"
)

// Complaint is one resident complaint. Content is owned by the submitting
// user; status is owned by an admin after submission.
type Complaint struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Subject   string             `bson:"subject" json:"subject"`
	Body      string             `bson:"body" json:"body"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

func (c Complaint) RecordID() primitive.ObjectID { return c.ID }

func (c Complaint) RecordCreated() time.Time { return c.CreatedAt }
