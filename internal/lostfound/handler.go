package lostfound

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"CommunityPortal/internal/live"
	"CommunityPortal/internal/session"
)

// Handler handles HTTP requests for lost-and-found reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmitRequest represents a new lost-and-found report.
type SubmitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"` // lost or found
	Location    string `json:"location"`
}

// Submit creates a report owned by the caller.
func (h *Handler) Submit(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	item, err := h.service.Submit(c.Request().Context(), ident.UserID, req.Title, req.Description, req.Kind, req.Location)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, item)
}

// List returns every report, newest first.
func (h *Handler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		// Transient store failure degrades to an empty list.
		return c.JSON(http.StatusOK, []Item{})
	}
	return c.JSON(http.StatusOK, items)
}

// Stream delivers the live report projection as server-sent events.
func (h *Handler) Stream(c echo.Context) error {
	if _, ok := session.FromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	return live.ServeSSE(c, func(onUpdate func([]Item)) *live.Handle {
		return h.service.Watch(onUpdate)
	})
}
