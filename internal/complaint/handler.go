package complaint

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"CommunityPortal/internal/live"
	"CommunityPortal/internal/session"
)

// Handler handles HTTP requests for complaints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmitRequest represents a new complaint.
type SubmitRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Submit files a complaint owned by the caller.
func (h *Handler) Submit(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	complaint, err := h.service.Submit(c.Request().Context(), ident.UserID, req.Subject, req.Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, complaint)
}

// List returns the caller's complaints, newest first.
func (h *Handler) List(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	complaints, err := h.service.ListByOwner(c.Request().Context(), ident.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, []Complaint{})
	}
	return c.JSON(http.StatusOK, complaints)
}

// Stream delivers the caller's live complaint projection as server-sent
// events.
func (h *Handler) Stream(c echo.Context) error {
	ident, ok := session.FromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing identity"})
	}
	return live.ServeSSE(c, func(onUpdate func([]Complaint)) *live.Handle {
		return h.service.WatchByOwner(ident.UserID, onUpdate)
	})
}
