package handler

import (
	"fmt"
	"net/http"
	"somthing-shop/internal/cache"
	"time"

	"github.com/labstack/echo/v4"
)

const heartbeatInterval = 15 * time.Second

type InvalidationHandler struct {
	cache *cache.Cache
}

func NewInvalidationHandler(queryCache *cache.Cache) *InvalidationHandler {
	return &InvalidationHandler{
		cache: queryCache,
	}
}

// Stream pushes every invalidated cache key to the admin UI as a server-sent
// event, so open views know which queries to refetch.
func (h *InvalidationHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()

	keys, cancel := h.cache.Subscribe()
	defer cancel()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(w, "event: invalidate\ndata: %s\n\n", key); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
