package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/orientapi/models"
)

type createCheckpointRequest struct {
	ExternalID string `json:"externalId"`
}

// CreateCheckpoint registers a checkpoint from a physical device. The label
// starts empty; an operator assigns it later.
func (h *Handler) CreateCheckpoint(c echo.Context) error {
	var req createCheckpointRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	if req.ExternalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "externalId is required")
	}

	checkpoint := &models.Checkpoint{ExternalID: req.ExternalID}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if _, err := h.db.NewInsert().Model(checkpoint).Exec(ctx); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "checkpoint already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, checkpoint)
}

// ListCheckpoints returns all checkpoints with skip/limit pagination.
func (h *Handler) ListCheckpoints(c echo.Context) error {
	skip, limit := pagination(c)

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	checkpoints := make([]models.Checkpoint, 0)
	err := h.db.NewSelect().
		Model(&checkpoints).
		OrderExpr("cp.id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, checkpoints)
}

// GetCheckpoint returns a single checkpoint by id.
func (h *Handler) GetCheckpoint(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	checkpoint := new(models.Checkpoint)
	err = h.db.NewSelect().Model(checkpoint).Where("cp.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "checkpoint not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, checkpoint)
}

// UpdateCheckpoint applies a sparse update, in practice the operator-assigned
// label.
func (h *Handler) UpdateCheckpoint(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var upd models.CheckpointUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	checkpoint := new(models.Checkpoint)
	err = h.db.NewSelect().Model(checkpoint).Where("cp.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "checkpoint not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	merged := checkpoint.Merge(upd)
	if _, err := h.db.NewUpdate().Model(&merged).WherePK().Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, merged)
}

// DeleteCheckpoint removes a checkpoint; dependent course entries and crossing
// events go with it.
func (h *Handler) DeleteCheckpoint(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	res, err := h.db.NewDelete().
		Model((*models.Checkpoint)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "checkpoint not found")
	}

	return c.NoContent(http.StatusNoContent)
}
