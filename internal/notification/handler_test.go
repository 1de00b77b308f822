package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"CommunityPortal/internal/session"
)

func markOneReadRequest(t *testing.T, h *Handler, userID string, id primitive.ObjectID) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/"+id.Hex()+"/read", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.Hex())
	c.Set(session.ContextKey, session.Identity{UserID: userID, Role: session.RoleUser})
	require.NoError(t, h.MarkOneRead(c))
	return rec
}

func TestMarkOneReadRejectsOtherRecipients(t *testing.T) {
	hub, _ := newTestHub()
	h := NewHandler(hub, nil)
	ctx := context.Background()

	hub.Create(ctx, "bob", "parcel arrived", CategoryInfo)
	notifications, err := hub.List(ctx, "bob")
	require.NoError(t, err)
	id := notifications[0].ID

	rec := markOneReadRequest(t, h, "alice", id)
	require.Equal(t, http.StatusNotFound, rec.Code)

	notifications, err = hub.List(ctx, "bob")
	require.NoError(t, err)
	require.False(t, notifications[0].Read)

	rec = markOneReadRequest(t, h, "bob", id)
	require.Equal(t, http.StatusOK, rec.Code)

	notifications, err = hub.List(ctx, "bob")
	require.NoError(t, err)
	require.True(t, notifications[0].Read)
}
