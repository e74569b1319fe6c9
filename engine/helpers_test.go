package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/padraicbc/orientapi/db"
	"github.com/padraicbc/orientapi/models"
)

func newTestEngine(t *testing.T) (*Engine, *bun.DB) {
	t.Helper()
	tdb := db.NewTestDB(t)
	return New(tdb), tdb
}

func mustRace(t *testing.T, tdb *bun.DB, name string, active bool) *models.Race {
	t.Helper()
	race := &models.Race{
		Name:        name,
		ScheduledAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Location:    "forest",
		IsActive:    active,
	}
	_, err := tdb.NewInsert().Model(race).Exec(context.Background())
	require.NoError(t, err)
	require.NotZero(t, race.ID)
	return race
}

func mustCheckpoint(t *testing.T, tdb *bun.DB, externalID string) *models.Checkpoint {
	t.Helper()
	cp := &models.Checkpoint{ExternalID: externalID}
	_, err := tdb.NewInsert().Model(cp).Exec(context.Background())
	require.NoError(t, err)
	require.NotZero(t, cp.ID)
	return cp
}

func mustParticipant(t *testing.T, tdb *bun.DB, tagID int64) *models.Participant {
	t.Helper()
	p := &models.Participant{TagID: tagID, FirstName: "pat", LastName: "runner"}
	_, err := tdb.NewInsert().Model(p).Exec(context.Background())
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	return p
}

// courseEntries reads the raw course rows ordered by position.
func courseEntries(t *testing.T, tdb *bun.DB, raceID int64) []models.CourseEntry {
	t.Helper()
	entries := make([]models.CourseEntry, 0)
	err := tdb.NewSelect().
		Model(&entries).
		Where("cc.race_id = ?", raceID).
		OrderExpr("cc.position ASC").
		Scan(context.Background())
	require.NoError(t, err)
	return entries
}

func countEvents(t *testing.T, tdb *bun.DB) int {
	t.Helper()
	n, err := tdb.NewSelect().Model((*models.CrossingEvent)(nil)).Count(context.Background())
	require.NoError(t, err)
	return n
}
