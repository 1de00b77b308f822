package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when an update targets a document that does not exist.
var ErrNotFound = errors.New("document not found")

// EventFunc receives one subscription event: either the full set of matching
// documents or a transport error. After an error the subscription stays open
// and the store keeps retrying on its own.
type EventFunc func(docs []bson.Raw, err error)

// CancelFunc stops delivery for a subscription. Safe to call more than once.
type CancelFunc func()

// UpdateOp is one field-set operation inside a batch.
type UpdateOp struct {
	ID     primitive.ObjectID
	Fields bson.M
}

// Store is the document store contract the engine runs against. Filters are
// conjunctions of equality constraints.
type Store interface {
	// ReadOnce runs a point-in-time query, not live-updating.
	ReadOnce(ctx context.Context, collection string, filter bson.M) ([]bson.Raw, error)

	// Count returns a point-in-time count of matching documents.
	Count(ctx context.Context, collection string, filter bson.M) (int64, error)

	// Insert creates a document and returns its assigned id.
	Insert(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error)

	// Update sets fields on a single document.
	Update(ctx context.Context, collection string, id primitive.ObjectID, fields bson.M) error

	// BatchUpdate applies all operations atomically: a concurrent subscriber
	// never observes a partially applied batch.
	BatchUpdate(ctx context.Context, collection string, ops []UpdateOp) error

	// Subscribe delivers an initial snapshot of matching documents, then a
	// fresh snapshot after every change, until the returned CancelFunc runs.
	Subscribe(collection string, filter bson.M, fn EventFunc) CancelFunc
}

// DecodeAll unmarshals raw documents into the collection's record type.
func DecodeAll[T any](docs []bson.Raw) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, raw := range docs {
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
