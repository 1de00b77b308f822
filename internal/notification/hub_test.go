package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CommunityPortal/internal/store"
)

func newTestHub() (*Hub, *store.MemoryStore) {
	m := store.NewMemoryStore()
	return NewHub(m, zap.NewNop()), m
}

func TestCreateIsBestEffort(t *testing.T) {
	hub, m := newTestHub()
	ctx := context.Background()

	m.FailWrites(errors.New("store down"))
	hub.Create(ctx, "alice", "hello", CategoryInfo) // must not panic or propagate

	m.FailWrites(nil)
	notifications, err := hub.List(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, notifications)
}

func TestListIsNewestFirstPerRecipient(t *testing.T) {
	hub, _ := newTestHub()
	ctx := context.Background()

	hub.Create(ctx, "alice", "first", CategoryInfo)
	time.Sleep(2 * time.Millisecond)
	hub.Create(ctx, "alice", "second", CategoryComplaint)
	hub.Create(ctx, "bob", "not for alice", CategoryInfo)

	notifications, err := hub.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, "second", notifications[0].Message)
	require.Equal(t, "first", notifications[1].Message)
}

func TestMarkAllReadIsIdempotent(t *testing.T) {
	hub, _ := newTestHub()
	ctx := context.Background()

	hub.Create(ctx, "alice", "one", CategoryInfo)
	hub.Create(ctx, "alice", "two", CategoryInfo)
	hub.Create(ctx, "bob", "other", CategoryInfo)

	require.NoError(t, hub.MarkAllRead(ctx, "alice"))

	notifications, err := hub.List(ctx, "alice")
	require.NoError(t, err)
	for _, n := range notifications {
		require.True(t, n.Read)
	}

	// Second call must leave the same state and not fail.
	require.NoError(t, hub.MarkAllRead(ctx, "alice"))

	// Bob's notification is untouched.
	bobs, err := hub.List(ctx, "bob")
	require.NoError(t, err)
	require.False(t, bobs[0].Read)
}

func TestSubscribeReportsZeroUnreadAfterMarkAllRead(t *testing.T) {
	hub, _ := newTestHub()
	ctx := context.Background()

	hub.Create(ctx, "alice", "one", CategoryInfo)
	hub.Create(ctx, "alice", "two", CategoryMatch)

	var latest []Notification
	handle := hub.Subscribe("alice", func(notifications []Notification) {
		latest = notifications
	})
	defer handle.Cancel()

	unread := 0
	for _, n := range latest {
		if !n.Read {
			unread++
		}
	}
	require.Equal(t, 2, unread)

	require.NoError(t, hub.MarkAllRead(ctx, "alice"))
	for _, n := range latest {
		require.True(t, n.Read)
	}
}

func TestMarkOneReadIsIdempotent(t *testing.T) {
	hub, _ := newTestHub()
	ctx := context.Background()

	hub.Create(ctx, "alice", "one", CategoryInfo)
	notifications, err := hub.List(ctx, "alice")
	require.NoError(t, err)
	id := notifications[0].ID

	require.NoError(t, hub.MarkOneRead(ctx, "alice", id))
	require.NoError(t, hub.MarkOneRead(ctx, "alice", id))

	notifications, err = hub.List(ctx, "alice")
	require.NoError(t, err)
	require.True(t, notifications[0].Read)
}

func TestMarkOneReadScopedToRecipient(t *testing.T) {
	hub, _ := newTestHub()
	ctx := context.Background()

	hub.Create(ctx, "bob", "for bob only", CategoryInfo)
	notifications, err := hub.List(ctx, "bob")
	require.NoError(t, err)
	id := notifications[0].ID

	// Only the recipient's own mark-read action may mutate the notification.
	err = hub.MarkOneRead(ctx, "alice", id)
	require.ErrorIs(t, err, store.ErrNotFound)

	notifications, err = hub.List(ctx, "bob")
	require.NoError(t, err)
	require.False(t, notifications[0].Read)

	require.NoError(t, hub.MarkOneRead(ctx, "bob", id))
	notifications, err = hub.List(ctx, "bob")
	require.NoError(t, err)
	require.True(t, notifications[0].Read)
}
