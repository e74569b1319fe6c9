package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCheckpoint_EmptyCourseStartsAtOne(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp := mustCheckpoint(t, tdb, "cp-1")

	pos, err := eng.AppendCheckpoint(ctx, race.ID, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos, "first checkpoint on an empty course takes position 1")
}

func TestAppendCheckpoint_SequentialPositions(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp1 := mustCheckpoint(t, tdb, "cp-1")
	cp2 := mustCheckpoint(t, tdb, "cp-2")

	pos1, err := eng.AppendCheckpoint(ctx, race.ID, cp1.ID)
	require.NoError(t, err)
	pos2, err := eng.AppendCheckpoint(ctx, race.ID, cp2.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, pos1)
	assert.Equal(t, 2, pos2)

	ordered, err := eng.OrderedCheckpoints(ctx, race.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, cp1.ID, ordered[0].ID)
	assert.Equal(t, cp2.ID, ordered[1].ID)
}

func TestAppendCheckpoint_Duplicate(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp := mustCheckpoint(t, tdb, "cp-1")

	_, err := eng.AppendCheckpoint(ctx, race.ID, cp.ID)
	require.NoError(t, err)

	_, err = eng.AppendCheckpoint(ctx, race.ID, cp.ID)
	require.ErrorIs(t, err, ErrDuplicateCourseMembership)

	// No partial mutation: still a single entry.
	assert.Len(t, courseEntries(t, tdb, race.ID), 1)
}

func TestAppendCheckpoint_UnknownRace(t *testing.T) {
	eng, tdb := newTestEngine(t)

	cp := mustCheckpoint(t, tdb, "cp-1")

	_, err := eng.AppendCheckpoint(context.Background(), 9999, cp.ID)
	require.ErrorIs(t, err, ErrUnknownRace)
}

func TestRemoveCheckpoint_LeavesGapAndAppendContinuesFromMax(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp1 := mustCheckpoint(t, tdb, "cp-1")
	cp2 := mustCheckpoint(t, tdb, "cp-2")
	cp3 := mustCheckpoint(t, tdb, "cp-3")
	cp4 := mustCheckpoint(t, tdb, "cp-4")

	for _, id := range []int64{cp1.ID, cp2.ID, cp3.ID} {
		_, err := eng.AppendCheckpoint(ctx, race.ID, id)
		require.NoError(t, err)
	}

	removed, err := eng.RemoveCheckpoint(ctx, race.ID, cp2.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	// Gap at position 2 is tolerated; order is relative rank.
	ordered, err := eng.OrderedCheckpoints(ctx, race.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, cp1.ID, ordered[0].ID)
	assert.Equal(t, cp3.ID, ordered[1].ID)

	// Next append continues from the surviving max, not the gap.
	pos, err := eng.AppendCheckpoint(ctx, race.ID, cp4.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, pos)

	entries := courseEntries(t, tdb, race.ID)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].Position, entries[i-1].Position,
			"positions must be strictly ascending")
	}
}

func TestRemoveCheckpoint_ReportsMissing(t *testing.T) {
	eng, tdb := newTestEngine(t)

	race := mustRace(t, tdb, "spring cup", true)

	removed, err := eng.RemoveCheckpoint(context.Background(), race.ID, 1234)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReplaceCourse_Reorders(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp1 := mustCheckpoint(t, tdb, "cp-1")
	cp2 := mustCheckpoint(t, tdb, "cp-2")

	_, err := eng.AppendCheckpoint(ctx, race.ID, cp1.ID)
	require.NoError(t, err)
	_, err = eng.AppendCheckpoint(ctx, race.ID, cp2.ID)
	require.NoError(t, err)

	require.NoError(t, eng.ReplaceCourse(ctx, race.ID, []int64{cp2.ID, cp1.ID}))

	entries := courseEntries(t, tdb, race.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, cp2.ID, entries[0].CheckpointID)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, cp1.ID, entries[1].CheckpointID)
	assert.Equal(t, 2, entries[1].Position)
}

func TestReplaceCourse_AbortKeepsPriorCourse(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp1 := mustCheckpoint(t, tdb, "cp-1")
	cp2 := mustCheckpoint(t, tdb, "cp-2")

	require.NoError(t, eng.ReplaceCourse(ctx, race.ID, []int64{cp1.ID, cp2.ID}))

	// A repeated checkpoint violates the course uniqueness invariant and
	// aborts the transaction mid-insert.
	err := eng.ReplaceCourse(ctx, race.ID, []int64{cp2.ID, cp1.ID, cp2.ID})
	require.Error(t, err)

	entries := courseEntries(t, tdb, race.ID)
	require.Len(t, entries, 2, "aborted replace must leave the prior course intact")
	assert.Equal(t, cp1.ID, entries[0].CheckpointID)
	assert.Equal(t, cp2.ID, entries[1].CheckpointID)
}

func TestReplaceCourse_EmptyClearsCourse(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp1 := mustCheckpoint(t, tdb, "cp-1")

	_, err := eng.AppendCheckpoint(ctx, race.ID, cp1.ID)
	require.NoError(t, err)

	require.NoError(t, eng.ReplaceCourse(ctx, race.ID, nil))
	assert.Empty(t, courseEntries(t, tdb, race.ID))
}

func TestReplaceCourse_UnknownRace(t *testing.T) {
	eng, tdb := newTestEngine(t)

	cp := mustCheckpoint(t, tdb, "cp-1")

	err := eng.ReplaceCourse(context.Background(), 9999, []int64{cp.ID})
	require.ErrorIs(t, err, ErrUnknownRace)
}

func TestReplaceCourse_ConcurrentReplacesSerialize(t *testing.T) {
	eng, tdb := newTestEngine(t)
	ctx := context.Background()

	race := mustRace(t, tdb, "spring cup", true)
	cp1 := mustCheckpoint(t, tdb, "cp-1")
	cp2 := mustCheckpoint(t, tdb, "cp-2")
	cp3 := mustCheckpoint(t, tdb, "cp-3")

	a := []int64{cp1.ID, cp2.ID, cp3.ID}
	b := []int64{cp3.ID, cp2.ID, cp1.ID}

	errs := make(chan error, 2)
	go func() { errs <- eng.ReplaceCourse(ctx, race.ID, a) }()
	go func() { errs <- eng.ReplaceCourse(ctx, race.ID, b) }()
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	// Whichever replace won, the visible course is one complete list with
	// contiguous positions, never an interleaving.
	entries := courseEntries(t, tdb, race.ID)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Position)
	}
	got := []int64{entries[0].CheckpointID, entries[1].CheckpointID, entries[2].CheckpointID}
	if got[0] == a[0] {
		assert.Equal(t, a, got)
	} else {
		assert.Equal(t, b, got)
	}
}

func TestOrderedCheckpoints_UnknownRace(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.OrderedCheckpoints(context.Background(), 9999)
	require.ErrorIs(t, err, ErrUnknownRace)
}
