package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Version is the reported API version.
const Version = "0.1.0"

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// HealthDB reports whether the database answers a ping.
func (h *Handler) HealthDB(c echo.Context) error {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	status := "healthy"
	if err := h.db.PingContext(ctx); err != nil {
		status = "unhealthy"
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}
