package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the dashboard counters.
type Handler struct {
	aggregator *Aggregator
}

// NewHandler creates a new Handler.
func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// Summary returns the current counters.
func (h *Handler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.aggregator.Snapshot())
}
