package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/orientapi/models"
)

type scanRequest struct {
	CheckpointID string `json:"checkpointId"`
	TagID        int64  `json:"tagId"`
	Timestamp    string `json:"timestamp"`
}

// CreateEvents ingests one raw scan from an edge device and returns the batch
// of crossing events it produced, one per matching active race. The device's
// timestamp is authoritative for the events' logical time.
func (h *Handler) CreateEvents(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CheckpointID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "checkpointId is required")
	}

	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "timestamp must be RFC 3339")
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	events, err := h.engine.ResolveScan(ctx, req.TagID, req.CheckpointID, ts)
	if err != nil {
		zap.L().Warn("scan not resolved",
			zap.Int64("tagID", req.TagID),
			zap.String("checkpoint", req.CheckpointID),
			zap.Error(err))
		return engineError(err)
	}

	zap.L().Info("scan resolved",
		zap.Int64("tagID", req.TagID),
		zap.String("checkpoint", req.CheckpointID),
		zap.Int("events", len(events)))

	return c.JSON(http.StatusCreated, events)
}

// ListEvents returns all crossing events with skip/limit pagination.
func (h *Handler) ListEvents(c echo.Context) error {
	skip, limit := pagination(c)

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	events := make([]models.CrossingEvent, 0)
	err := h.db.NewSelect().
		Model(&events).
		OrderExpr("ev.id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, events)
}

// GetEvent returns a single crossing event by id.
func (h *Handler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	event := new(models.CrossingEvent)
	err = h.db.NewSelect().Model(event).Where("ev.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, event)
}

// RaceParticipantEvents returns all crossings of one participant in one race.
func (h *Handler) RaceParticipantEvents(c echo.Context) error {
	raceID, err := pathID(c, "raceID")
	if err != nil {
		return err
	}
	participantID, err := pathID(c, "participantID")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	events := make([]models.CrossingEvent, 0)
	err = h.db.NewSelect().
		Model(&events).
		Where("ev.race_id = ?", raceID).
		Where("ev.participant_id = ?", participantID).
		OrderExpr("ev.ts ASC").
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, events)
}

// DeleteEvent removes a crossing event.
func (h *Handler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	res, err := h.db.NewDelete().
		Model((*models.CrossingEvent)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	return c.NoContent(http.StatusNoContent)
}
