package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type memoryDoc struct {
	OwnerID   string    `bson:"owner_id"`
	Title     string    `bson:"title"`
	Read      bool      `bson:"read"`
	CreatedAt time.Time `bson:"created_at"`
}

func TestMemoryStoreReadOnceFiltersByEquality(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_, err := m.Insert(ctx, "items", memoryDoc{OwnerID: "alice", Title: "one"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, "items", memoryDoc{OwnerID: "bob", Title: "two"})
	require.NoError(t, err)

	docs, err := m.ReadOnce(ctx, "items", bson.M{"owner_id": "alice"})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	decoded, err := DecodeAll[memoryDoc](docs)
	require.NoError(t, err)
	require.Equal(t, "one", decoded[0].Title)

	n, err := m.Count(ctx, "items", bson.M{})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestMemoryStoreUpdateMissingDocument(t *testing.T) {
	m := NewMemoryStore()
	id, err := m.Insert(context.Background(), "items", memoryDoc{Title: "x"})
	require.NoError(t, err)

	err = m.Update(context.Background(), "items", id, bson.M{"title": "y"})
	require.NoError(t, err)

	err = m.Update(context.Background(), "other", id, bson.M{"title": "y"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreBatchUpdateIsAtomicToSubscribers(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	var ops []UpdateOp
	for i := 0; i < 3; i++ {
		id, err := m.Insert(ctx, "items", memoryDoc{Read: false})
		require.NoError(t, err)
		ops = append(ops, UpdateOp{ID: id, Fields: bson.M{"read": true}})
	}

	var events [][]memoryDoc
	cancel := m.Subscribe("items", bson.M{}, func(docs []bson.Raw, err error) {
		require.NoError(t, err)
		decoded, err := DecodeAll[memoryDoc](docs)
		require.NoError(t, err)
		events = append(events, decoded)
	})
	defer cancel()

	require.NoError(t, m.BatchUpdate(ctx, "items", ops))

	// One initial snapshot, then exactly one event for the whole batch.
	require.Len(t, events, 2)
	for _, doc := range events[1] {
		require.True(t, doc.Read, "subscriber observed a partially applied batch")
	}
}

func TestMemoryStoreCancelStopsDelivery(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	events := 0
	cancel := m.Subscribe("items", bson.M{}, func(docs []bson.Raw, err error) {
		events++
	})
	require.Equal(t, 1, events)

	cancel()
	_, err := m.Insert(ctx, "items", memoryDoc{Title: "after cancel"})
	require.NoError(t, err)
	require.Equal(t, 1, events)
}

func TestMemoryStoreFailWrites(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("store down")
	m.FailWrites(boom)

	_, err := m.Insert(context.Background(), "items", memoryDoc{})
	require.ErrorIs(t, err, boom)

	m.FailWrites(nil)
	_, err = m.Insert(context.Background(), "items", memoryDoc{})
	require.NoError(t, err)
}
