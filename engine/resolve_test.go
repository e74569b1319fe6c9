package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScan_FanOutAcrossActiveRaces(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	// R1 active with course [CP1, CP2, CP3], R2 active with [CP1],
	// R3 inactive with [CP1]. One physical timing point, three races.
	r1 := mustRace(t, tdb, "r1", true)
	r2 := mustRace(t, tdb, "r2", true)
	r3 := mustRace(t, tdb, "r3", false)
	cp1 := mustCheckpoint(t, tdb, "cp-1")
	cp2 := mustCheckpoint(t, tdb, "cp-2")
	cp3 := mustCheckpoint(t, tdb, "cp-3")
	p := mustParticipant(t, tdb, 42)

	require.NoError(t, eng.ReplaceCourse(ctx, r1.ID, []int64{cp1.ID, cp2.ID, cp3.ID}))
	require.NoError(t, eng.ReplaceCourse(ctx, r2.ID, []int64{cp1.ID}))
	require.NoError(t, eng.ReplaceCourse(ctx, r3.ID, []int64{cp1.ID}))

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	events, err := eng.ResolveScan(ctx, 42, "cp-1", ts)
	require.NoError(t, err)
	require.Len(t, events, 2, "one event per matching active race")

	raceIDs := map[int64]bool{}
	for _, ev := range events {
		assert.NotZero(t, ev.ID, "persisted event must carry its assigned id")
		assert.Equal(t, p.ID, ev.ParticipantID)
		assert.Equal(t, cp1.ID, ev.CheckpointID)
		assert.True(t, ev.Timestamp.Equal(ts), "device timestamp is authoritative")
		raceIDs[ev.RaceID] = true
	}
	assert.True(t, raceIDs[r1.ID])
	assert.True(t, raceIDs[r2.ID])
	assert.False(t, raceIDs[r3.ID], "inactive race must not receive an event")

	assert.Equal(t, 2, countEvents(t, tdb))
}

func TestResolveScan_NoActiveRace(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	r := mustRace(t, tdb, "r", false)
	cp := mustCheckpoint(t, tdb, "cp-1")
	mustParticipant(t, tdb, 42)
	require.NoError(t, eng.ReplaceCourse(ctx, r.ID, []int64{cp.ID}))

	_, err := eng.ResolveScan(ctx, 42, "cp-1", time.Now().UTC())
	require.ErrorIs(t, err, ErrNoActiveRace)

	assert.Zero(t, countEvents(t, tdb), "a no-match outcome persists nothing")
}

func TestResolveScan_UnknownCheckpoint(t *testing.T) {
	eng, tdb := newTestEngine(t)

	mustParticipant(t, tdb, 42)

	_, err := eng.ResolveScan(context.Background(), 42, "cp-missing", time.Now().UTC())
	require.ErrorIs(t, err, ErrUnknownCheckpoint)
	assert.NotErrorIs(t, err, ErrUnknownParticipant)
}

func TestResolveScan_UnknownParticipant(t *testing.T) {
	eng, tdb := newTestEngine(t)

	mustCheckpoint(t, tdb, "cp-1")

	_, err := eng.ResolveScan(context.Background(), 42, "cp-1", time.Now().UTC())
	require.ErrorIs(t, err, ErrUnknownParticipant)
	assert.NotErrorIs(t, err, ErrUnknownCheckpoint)
}

func TestResolveScan_RepeatedScansAreIndependentBatches(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	r := mustRace(t, tdb, "r", true)
	cp := mustCheckpoint(t, tdb, "cp-1")
	mustParticipant(t, tdb, 42)
	require.NoError(t, eng.ReplaceCourse(ctx, r.ID, []int64{cp.ID}))

	ts1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ts2 := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)

	first, err := eng.ResolveScan(ctx, 42, "cp-1", ts1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := eng.ResolveScan(ctx, 42, "cp-1", ts2)
	require.NoError(t, err)
	require.Len(t, second, 1)

	// Re-scans are valid crossings; the second batch never mutates the first.
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Timestamp.Equal(ts1))
	assert.True(t, second[0].Timestamp.Equal(ts2))
	assert.Equal(t, 2, countEvents(t, tdb))
}
