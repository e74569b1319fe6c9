package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/orientapi/models"
)

type createParticipantRequest struct {
	TagID     int64  `json:"tagId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateParticipant registers a participant. Creation fails when the tag id is
// already live on another participant; tags are reassigned only by an explicit
// update.
func (h *Handler) CreateParticipant(c echo.Context) error {
	var req createParticipantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TagID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tagId is required")
	}

	participant := &models.Participant{
		TagID:     req.TagID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if _, err := h.db.NewInsert().Model(participant).Exec(ctx); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "tag id already assigned")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, participant)
}

// ListParticipants returns all participants, or a race's roster when the
// raceID query param is set.
func (h *Handler) ListParticipants(c echo.Context) error {
	if v := c.QueryParam("raceID"); v != "" {
		raceID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || raceID <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid raceID")
		}

		ctx, cancel := h.storageCtx(c)
		defer cancel()

		participants, err := h.engine.Participants(ctx, raceID)
		if err != nil {
			return engineError(err)
		}
		return c.JSON(http.StatusOK, participants)
	}

	skip, limit := pagination(c)

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	participants := make([]models.Participant, 0)
	err := h.db.NewSelect().
		Model(&participants).
		OrderExpr("p.id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, participants)
}

// GetParticipant returns a single participant by id.
func (h *Handler) GetParticipant(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	participant := new(models.Participant)
	err = h.db.NewSelect().Model(participant).Where("p.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "participant not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, participant)
}

// UpdateParticipant applies a sparse update. Reassigning the tag id here is
// the explicit admin action; a collision with a live tag is a conflict.
func (h *Handler) UpdateParticipant(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var upd models.ParticipantUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	participant := new(models.Participant)
	err = h.db.NewSelect().Model(participant).Where("p.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "participant not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	merged := participant.Merge(upd)
	if _, err := h.db.NewUpdate().Model(&merged).WherePK().Exec(ctx); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "tag id already assigned")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, merged)
}

// DeleteParticipant removes a participant; roster memberships and crossing
// events go with them.
func (h *Handler) DeleteParticipant(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	res, err := h.db.NewDelete().
		Model((*models.Participant)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "participant not found")
	}

	return c.NoContent(http.StatusNoContent)
}
