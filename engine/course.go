package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/orientapi/models"
)

// AppendCheckpoint adds the checkpoint at the end of the race's course and
// returns its assigned position. An empty course starts at position 1;
// otherwise the next position is max(position)+1. The empty case is an
// explicit branch: a null max must never be mistaken for position 0.
func (e *Engine) AppendCheckpoint(ctx context.Context, raceID, checkpointID int64) (int, error) {
	var position int

	err := e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := raceExists(ctx, tx, raceID); err != nil {
			return err
		}

		count, err := tx.NewSelect().
			Model((*models.CourseEntry)(nil)).
			Where("cc.race_id = ?", raceID).
			Count(ctx)
		if err != nil {
			return err
		}

		if count == 0 {
			position = 1
		} else {
			var max int
			err := tx.NewSelect().
				Model((*models.CourseEntry)(nil)).
				ColumnExpr("max(cc.position)").
				Where("cc.race_id = ?", raceID).
				Scan(ctx, &max)
			if err != nil {
				return err
			}
			position = max + 1
		}

		entry := &models.CourseEntry{
			RaceID:       raceID,
			CheckpointID: checkpointID,
			Position:     position,
		}
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("race %d checkpoint %d: %w", raceID, checkpointID, ErrDuplicateCourseMembership)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, wrapStorage(err)
	}
	return position, nil
}

// RemoveCheckpoint deletes the single membership row and reports whether it
// existed. Remaining positions are not renumbered; relative rank still defines
// the course order.
func (e *Engine) RemoveCheckpoint(ctx context.Context, raceID, checkpointID int64) (bool, error) {
	res, err := e.db.NewDelete().
		Model((*models.CourseEntry)(nil)).
		Where("race_id = ?", raceID).
		Where("checkpoint_id = ?", checkpointID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return n > 0, nil
}

// ReplaceCourse swaps the race's whole course for the given ordered checkpoint
// list, assigning positions 1..n, in a single transaction. A concurrent reader
// sees either the old course or the new one, never a partial mix. In-process
// replaces on the same race serialize on a per-race lock; storage-level
// conflicts surface as ErrCourseReplaceConflict for the caller to retry.
func (e *Engine) ReplaceCourse(ctx context.Context, raceID int64, orderedCheckpointIDs []int64) error {
	lock := e.replaceLock(raceID)
	lock.Lock()
	defer lock.Unlock()

	err := e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := raceExists(ctx, tx, raceID); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*models.CourseEntry)(nil)).
			Where("race_id = ?", raceID).
			Exec(ctx); err != nil {
			return err
		}

		if len(orderedCheckpointIDs) == 0 {
			return nil
		}

		entries := make([]models.CourseEntry, len(orderedCheckpointIDs))
		for i, id := range orderedCheckpointIDs {
			entries[i] = models.CourseEntry{
				RaceID:       raceID,
				CheckpointID: id,
				Position:     i + 1,
			}
		}
		if _, err := tx.NewInsert().Model(&entries).Exec(ctx); err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("race %d: %w", raceID, ErrDuplicateCourseMembership)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if isLockConflict(err) {
			return fmt.Errorf("race %d: %w", raceID, ErrCourseReplaceConflict)
		}
		return wrapStorage(err)
	}
	return nil
}

// OrderedCheckpoints returns the race's checkpoints ascending by position.
func (e *Engine) OrderedCheckpoints(ctx context.Context, raceID int64) ([]models.Checkpoint, error) {
	if err := raceExists(ctx, e.db, raceID); err != nil {
		return nil, wrapStorage(err)
	}

	checkpoints := make([]models.Checkpoint, 0)
	err := e.db.NewSelect().
		Model(&checkpoints).
		Join("INNER JOIN race_checkpoints cc ON cc.checkpoint_id = cp.id").
		Where("cc.race_id = ?", raceID).
		OrderExpr("cc.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return checkpoints, nil
}

func raceExists(ctx context.Context, idb bun.IDB, raceID int64) error {
	exists, err := idb.NewSelect().
		Model((*models.Race)(nil)).
		Where("rc.id = ?", raceID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("race %d: %w", raceID, ErrUnknownRace)
	}
	return nil
}

// wrapStorage passes the engine's own failure kinds through untouched and
// wraps anything else as a persistence failure.
func wrapStorage(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrUnknownParticipant,
		ErrUnknownCheckpoint,
		ErrUnknownRace,
		ErrNoActiveRace,
		ErrDuplicateCourseMembership,
		ErrCourseReplaceConflict,
		ErrAlreadyOnRoster,
		ErrPersistence,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
