package notification

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"CommunityPortal/internal/live"
	"CommunityPortal/internal/session"
	"CommunityPortal/internal/store"
)

// Handler exposes the hub's operations over HTTP.
type Handler struct {
	hub       *Hub
	broadcast *BroadcastService
}

// NewHandler creates a new Handler.
func NewHandler(hub *Hub, broadcast *BroadcastService) *Handler {
	return &Handler{hub: hub, broadcast: broadcast}
}

// List returns the caller's notifications, newest first.
func (h *Handler) List(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	notifications, err := h.hub.List(c.Request().Context(), ident.UserID)
	if err != nil {
		// Transient store failure degrades to an empty list, never a fault.
		return c.JSON(http.StatusOK, []Notification{})
	}
	return c.JSON(http.StatusOK, notifications)
}

// Stream delivers the caller's live notification projection as server-sent
// events.
func (h *Handler) Stream(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	return live.ServeSSE(c, func(onUpdate func([]Notification)) *live.Handle {
		return h.hub.Subscribe(ident.UserID, onUpdate)
	})
}

// MarkAllRead flips every unread notification for the caller.
func (h *Handler) MarkAllRead(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	if err := h.hub.MarkAllRead(c.Request().Context(), ident.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notifications read"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "All notifications marked read"})
}

// MarkOneRead flips a single notification belonging to the caller. Another
// recipient's notification reads as not found.
func (h *Handler) MarkOneRead(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification id"})
	}
	err = h.hub.MarkOneRead(c.Request().Context(), ident.UserID, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Notification not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notification read"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked read"})
}

// BroadcastRequest represents an admin announcement to a role audience.
type BroadcastRequest struct {
	Role    string `json:"role"`    // Target audience role
	Message string `json:"message"` // Announcement text
}

// Broadcast fans an announcement out to every account with the target role.
func (h *Handler) Broadcast(c echo.Context) error {
	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}
	if req.Role == "" {
		req.Role = session.RoleUser
	}
	delivered, err := h.broadcast.Broadcast(c.Request().Context(), req.Role, req.Message)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to resolve audience"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Broadcast delivered", "recipients": delivered})
}
