package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type appendCheckpointRequest struct {
	CheckpointID int64 `json:"checkpointId"`
}

type replaceCourseRequest struct {
	CheckpointIDs []int64 `json:"checkpointIds"`
}

// GetCourse returns the race's checkpoints in course order.
func (h *Handler) GetCourse(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	checkpoints, err := h.engine.OrderedCheckpoints(ctx, raceID)
	if err != nil {
		return engineError(err)
	}

	return c.JSON(http.StatusOK, checkpoints)
}

// AppendCourseCheckpoint adds one checkpoint at the end of the race's course.
func (h *Handler) AppendCourseCheckpoint(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req appendCheckpointRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CheckpointID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "checkpointId is required")
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	position, err := h.engine.AppendCheckpoint(ctx, raceID, req.CheckpointID)
	if err != nil {
		return engineError(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"raceId":       raceID,
		"checkpointId": req.CheckpointID,
		"position":     position,
	})
}

// ReplaceCourse swaps the race's entire course for the posted ordered list.
func (h *Handler) ReplaceCourse(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req replaceCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if err := h.engine.ReplaceCourse(ctx, raceID, req.CheckpointIDs); err != nil {
		return engineError(err)
	}

	zap.L().Info("course replaced",
		zap.Int64("raceID", raceID),
		zap.Int("checkpoints", len(req.CheckpointIDs)))

	checkpoints, err := h.engine.OrderedCheckpoints(ctx, raceID)
	if err != nil {
		return engineError(err)
	}
	return c.JSON(http.StatusOK, checkpoints)
}

// RemoveCourseCheckpoint takes one checkpoint off the race's course.
func (h *Handler) RemoveCourseCheckpoint(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	checkpointID, err := pathID(c, "checkpointID")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	removed, err := h.engine.RemoveCheckpoint(ctx, raceID, checkpointID)
	if err != nil {
		return engineError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "checkpoint not on course")
	}

	return c.NoContent(http.StatusNoContent)
}

type addRosterRequest struct {
	ParticipantID int64 `json:"participantId"`
}

// GetRoster returns the race's registered participants.
func (h *Handler) GetRoster(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	participants, err := h.engine.Participants(ctx, raceID)
	if err != nil {
		return engineError(err)
	}

	return c.JSON(http.StatusOK, participants)
}

// AddRosterParticipant registers a participant to the race.
func (h *Handler) AddRosterParticipant(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req addRosterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ParticipantID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "participantId is required")
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if err := h.engine.AddParticipant(ctx, raceID, req.ParticipantID); err != nil {
		return engineError(err)
	}

	return c.NoContent(http.StatusCreated)
}

// RemoveRosterParticipant takes a participant off the race's roster.
func (h *Handler) RemoveRosterParticipant(c echo.Context) error {
	raceID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	participantID, err := pathID(c, "participantID")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	removed, err := h.engine.RemoveParticipant(ctx, raceID, participantID)
	if err != nil {
		return engineError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "participant not on roster")
	}

	return c.NoContent(http.StatusNoContent)
}
