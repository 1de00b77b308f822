package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CommunityPortal/internal/config"
	"CommunityPortal/internal/session"
	"CommunityPortal/internal/store"
)

func TestBroadcastFansOutPerRoleMember(t *testing.T) {
	m := store.NewMemoryStore()
	ctx := context.Background()

	for _, account := range []session.Account{
		{UserID: "u1", Name: "One", Role: session.RoleUser},
		{UserID: "u2", Name: "Two", Role: session.RoleUser},
		{UserID: "a1", Name: "Admin", Role: session.RoleAdmin},
	} {
		_, err := m.Insert(ctx, session.AccountCollection, account)
		require.NoError(t, err)
	}

	hub := NewHub(m, zap.NewNop())
	service := NewBroadcastService(hub, session.NewAccountRepository(m), config.NewEmailService(&config.ResendConfig{}), zap.NewNop())

	delivered, err := service.Broadcast(ctx, session.RoleUser, "water outage tomorrow")
	require.NoError(t, err)
	require.Equal(t, 2, delivered)

	for _, recipient := range []string{"u1", "u2"} {
		notifications, err := hub.List(ctx, recipient)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		require.Equal(t, "water outage tomorrow", notifications[0].Message)
		require.Equal(t, CategoryInfo, notifications[0].Category)
	}

	admins, err := hub.List(ctx, "a1")
	require.NoError(t, err)
	require.Empty(t, admins)
}
