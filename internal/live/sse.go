package live

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ServeSSE streams JSON snapshots of a live projection as server-sent
// events until the request context ends. The subscription is acquired on
// mount and released on every exit path through the deferred cancel. A nil
// snapshot is written as an empty list, never null.
func ServeSSE[T any](c echo.Context, subscribe func(onUpdate func([]T)) *Handle) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	updates := make(chan []T, 1)
	handle := subscribe(func(snapshot []T) {
		if snapshot == nil {
			snapshot = []T{}
		}
		// A newer snapshot supersedes an undelivered one.
		select {
		case updates <- snapshot:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snapshot:
			default:
			}
		}
	})
	defer handle.Cancel()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case snapshot := <-updates:
			data, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", data)
			c.Response().Flush()
		}
	}
}
