package workflow

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"CommunityPortal/internal/store"
)

// Handler exposes admin status mutations over HTTP.
type Handler struct {
	controller *Controller
}

// NewHandler creates a new Handler.
func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

// StatusRequest represents an admin status change.
type StatusRequest struct {
	Status string `json:"status"`
}

// SetLostFoundStatus updates a lost-and-found report's status.
func (h *Handler) SetLostFoundStatus(c echo.Context) error {
	return h.setStatus(c, LostFoundTarget)
}

// SetComplaintStatus updates a complaint's status.
func (h *Handler) SetComplaintStatus(c echo.Context) error {
	return h.setStatus(c, ComplaintTarget)
}

func (h *Handler) setStatus(c echo.Context, target Target) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid record id"})
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	err = h.controller.SetStatus(c.Request().Context(), target, id, req.Status)
	switch {
	case errors.Is(err, ErrUnknownStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown status"})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Record not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update status"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Status updated"})
}
