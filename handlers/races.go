package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/orientapi/models"
)

type createRaceRequest struct {
	Name        string    `json:"name"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Location    string    `json:"location"`
	IsActive    bool      `json:"isActive"`
}

// CreateRace inserts a new race.
func (h *Handler) CreateRace(c echo.Context) error {
	var req createRaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.ScheduledAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduledAt is required")
	}

	race := &models.Race{
		Name:        req.Name,
		ScheduledAt: req.ScheduledAt,
		Location:    strings.TrimSpace(req.Location),
		IsActive:    req.IsActive,
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if _, err := h.db.NewInsert().Model(race).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, race)
}

// ListRaces returns all races with skip/limit pagination.
func (h *Handler) ListRaces(c echo.Context) error {
	skip, limit := pagination(c)

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	races := make([]models.Race, 0)
	err := h.db.NewSelect().
		Model(&races).
		OrderExpr("rc.id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, races)
}

// GetRace returns a single race by id.
func (h *Handler) GetRace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	race := new(models.Race)
	err = h.db.NewSelect().Model(race).Where("rc.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, race)
}

// UpdateRace applies a sparse update: only the fields present in the request
// body change, merged onto the stored race as one new value.
func (h *Handler) UpdateRace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var upd models.RaceUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	race := new(models.Race)
	err = h.db.NewSelect().Model(race).Where("rc.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	merged := race.Merge(upd)
	if _, err := h.db.NewUpdate().Model(&merged).WherePK().Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, merged)
}

// DeleteRace removes a race; its course, roster and events go with it.
func (h *Handler) DeleteRace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	res, err := h.db.NewDelete().
		Model((*models.Race)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	}

	return c.NoContent(http.StatusNoContent)
}
