package volunteer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the volunteer registrations collection name.
const Collection = "volunteer_registrations"

// Registration is one volunteer sign-up for an event. At most one should
// exist per (user, event) pair; the guard enforces that at write time.
type Registration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	EventID   string             `bson:"event_id" json:"event_id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Note      string             `bson:"note" json:"note"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

func (r Registration) RecordID() primitive.ObjectID { return r.ID }

func (r Registration) RecordCreated() time.Time { return r.CreatedAt }
