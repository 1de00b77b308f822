package volunteer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"CommunityPortal/internal/session"
)

// Handler handles HTTP requests for volunteer registrations.
type Handler struct {
	guard *Guard
}

// NewHandler creates a new Handler.
func NewHandler(guard *Guard) *Handler {
	return &Handler{guard: guard}
}

// RegisterRequest represents a volunteer sign-up.
type RegisterRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Note    string `json:"note"`
}

// Register signs the caller up for an event, at most once per event.
func (h *Handler) Register(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	accepted, err := h.guard.Register(c.Request().Context(), Registration{
		UserID:  ident.UserID,
		EventID: req.EventID,
		Name:    req.Name,
		Phone:   req.Phone,
		Note:    req.Note,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if !accepted {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Already registered for this event"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Registration accepted"})
}

// List returns the caller's registrations.
func (h *Handler) List(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	registrations, err := h.guard.ListByUser(c.Request().Context(), ident.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, []Registration{})
	}
	return c.JSON(http.StatusOK, registrations)
}
