package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/orientapi/models"
)

// ResolveScan turns one raw scan into persisted crossing events: one event per
// active race whose course contains the scanned checkpoint. The timestamp is
// the device's wall clock and is stored as given. The whole batch commits in a
// single transaction, so a checkpoint shared by overlapping races either shows
// the crossing on every board or on none.
//
// The engine never retries; an ambiguous commit failure is the caller's to
// retry, accepting that a retry after an actually-committed attempt creates
// duplicate events (at-least-once delivery from the edge device).
func (e *Engine) ResolveScan(ctx context.Context, tagID int64, checkpointExternalID string, ts time.Time) ([]models.CrossingEvent, error) {
	checkpoint, err := e.CheckpointByExternalID(ctx, checkpointExternalID)
	if err != nil {
		return nil, err
	}

	participant, err := e.ParticipantByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	races, err := e.ActiveRacesForCheckpoint(ctx, checkpoint.ID)
	if err != nil {
		return nil, err
	}
	if len(races) == 0 {
		return nil, fmt.Errorf("checkpoint %q: %w", checkpointExternalID, ErrNoActiveRace)
	}

	events := make([]models.CrossingEvent, len(races))
	for i, race := range races {
		events[i] = models.CrossingEvent{
			ParticipantID: participant.ID,
			CheckpointID:  checkpoint.ID,
			RaceID:        race.ID,
			Timestamp:     ts,
		}
	}

	err = e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&events).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return events, nil
}
