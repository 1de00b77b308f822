package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"CommunityPortal/internal/store"
)

type testRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r testRecord) RecordID() primitive.ObjectID { return r.ID }

func (r testRecord) RecordCreated() time.Time { return r.CreatedAt }

func TestWatchProjectsNewestFirst(t *testing.T) {
	m := store.NewMemoryStore()
	ctx := context.Background()
	base := time.Now().Round(time.Millisecond)

	_, err := m.Insert(ctx, "records", testRecord{Title: "old", CreatedAt: base.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = m.Insert(ctx, "records", testRecord{Title: "new", CreatedAt: base})
	require.NoError(t, err)
	// An in-flight write: no server timestamp yet, must sort last.
	_, err = m.Insert(ctx, "records", testRecord{Title: "inflight"})
	require.NoError(t, err)

	var latest []testRecord
	handle := Watch[testRecord](m, "records", bson.M{}, zap.NewNop(), func(records []testRecord) {
		latest = records
	})
	defer handle.Cancel()

	require.Len(t, latest, 3)
	require.Equal(t, "new", latest[0].Title)
	require.Equal(t, "old", latest[1].Title)
	require.Equal(t, "inflight", latest[2].Title)

	_, err = m.Insert(ctx, "records", testRecord{Title: "newest", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, latest, 4)
	require.Equal(t, "newest", latest[0].Title)
}

func TestWatchTransportErrorDegradesToEmpty(t *testing.T) {
	m := store.NewMemoryStore()
	_, err := m.Insert(context.Background(), "records", testRecord{Title: "x", CreatedAt: time.Now()})
	require.NoError(t, err)

	var updates [][]testRecord
	handle := Watch[testRecord](m, "records", bson.M{}, zap.NewNop(), func(records []testRecord) {
		updates = append(updates, records)
	})
	defer handle.Cancel()

	require.Len(t, updates, 1)
	require.Len(t, updates[0], 1)

	m.Disrupt("records", errors.New("stream broken"))
	require.Len(t, updates, 2)
	require.NotNil(t, updates[1])
	require.Empty(t, updates[1])
}

func TestWatchCancelStopsDelivery(t *testing.T) {
	m := store.NewMemoryStore()
	ctx := context.Background()

	events := 0
	handle := Watch[testRecord](m, "records", bson.M{}, zap.NewNop(), func(records []testRecord) {
		events++
	})
	require.Equal(t, 1, events)

	handle.Cancel()
	handle.Cancel() // idempotent

	_, err := m.Insert(ctx, "records", testRecord{Title: "late", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, 1, events)
}

func TestProjectDeduplicatesByID(t *testing.T) {
	id := primitive.NewObjectID()
	now := time.Now()
	records := []testRecord{
		{ID: id, Title: "first", CreatedAt: now},
		{ID: id, Title: "dup", CreatedAt: now},
		{ID: primitive.NewObjectID(), Title: "other", CreatedAt: now.Add(-time.Minute)},
	}

	projected := Project(records)
	require.Len(t, projected, 2)
	require.Equal(t, "first", projected[0].Title)
	require.Equal(t, "other", projected[1].Title)
}

func TestScopeClosesEveryHandle(t *testing.T) {
	m := store.NewMemoryStore()
	ctx := context.Background()

	events := 0
	scope := NewScope()
	for i := 0; i < 3; i++ {
		scope.Add(Watch[testRecord](m, "records", bson.M{}, zap.NewNop(), func(records []testRecord) {
			events++
		}))
	}
	require.Equal(t, 3, events)

	scope.Close()
	_, err := m.Insert(ctx, "records", testRecord{CreatedAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, 3, events)

	// A handle added after close is cancelled immediately.
	scope.Add(Watch[testRecord](m, "records", bson.M{}, zap.NewNop(), func(records []testRecord) {
		events++
	}))
	require.Equal(t, 4, events) // initial snapshot only
	_, err = m.Insert(ctx, "records", testRecord{CreatedAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, 4, events)
}
