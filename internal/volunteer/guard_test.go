package volunteer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"CommunityPortal/internal/store"
)

func TestRegisterRejectsDuplicateKey(t *testing.T) {
	guard := NewGuard(store.NewMemoryStore())
	ctx := context.Background()

	accepted, err := guard.Register(ctx, Registration{UserID: "alice", EventID: "cleanup-day", Name: "Alice"})
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = guard.Register(ctx, Registration{UserID: "alice", EventID: "cleanup-day", Name: "Alice"})
	require.NoError(t, err)
	require.False(t, accepted)

	registrations, err := guard.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, registrations, 1)
}

func TestRegisterAllowsDifferentEventOrUser(t *testing.T) {
	guard := NewGuard(store.NewMemoryStore())
	ctx := context.Background()

	accepted, err := guard.Register(ctx, Registration{UserID: "alice", EventID: "cleanup-day"})
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = guard.Register(ctx, Registration{UserID: "alice", EventID: "food-drive"})
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = guard.Register(ctx, Registration{UserID: "bob", EventID: "cleanup-day"})
	require.NoError(t, err)
	require.True(t, accepted)
}

func TestRegisterRequiresUserAndEvent(t *testing.T) {
	guard := NewGuard(store.NewMemoryStore())

	_, err := guard.Register(context.Background(), Registration{UserID: "alice"})
	require.Error(t, err)
	_, err = guard.Register(context.Background(), Registration{EventID: "cleanup-day"})
	require.Error(t, err)
}
