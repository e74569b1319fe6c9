package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/padraicbc/orientapi/engine"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db      *bun.DB
	engine  *engine.Engine
	timeout time.Duration
}

// New creates a Handler with the given database connection, resolution engine
// and per-request storage timeout.
func New(db *bun.DB, eng *engine.Engine, storageTimeout time.Duration) *Handler {
	return &Handler{db: db, engine: eng, timeout: storageTimeout}
}

// storageCtx bounds storage work for one request so a stuck query surfaces as
// a failure instead of a hang.
func (h *Handler) storageCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

// engineError maps the engine's failure kinds to transport responses. Identity
// misses and the no-active-race outcome are both 404-class but keep their
// distinct messages so the edge device can react differently.
func engineError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, engine.ErrUnknownParticipant),
		errors.Is(err, engine.ErrUnknownCheckpoint),
		errors.Is(err, engine.ErrUnknownRace),
		errors.Is(err, engine.ErrNoActiveRace):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrDuplicateCourseMembership),
		errors.Is(err, engine.ErrCourseReplaceConflict),
		errors.Is(err, engine.ErrAlreadyOnRoster):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// isDuplicateKey reports whether err is a unique-constraint violation from
// the driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

// pagination reads skip/limit query params with the defaults the old API used.
func pagination(c echo.Context) (skip, limit int) {
	skip, limit = 0, 100
	if v := c.QueryParam("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	return skip, limit
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
