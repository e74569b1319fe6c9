package engine

import (
	"context"
	"fmt"

	"github.com/padraicbc/orientapi/models"
)

// AddParticipant registers the participant to the race. Adding an existing
// member returns ErrAlreadyOnRoster with the membership unchanged.
func (e *Engine) AddParticipant(ctx context.Context, raceID, participantID int64) error {
	if err := raceExists(ctx, e.db, raceID); err != nil {
		return wrapStorage(err)
	}

	entry := &models.RosterEntry{
		RaceID:        raceID,
		ParticipantID: participantID,
	}
	if _, err := e.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("race %d participant %d: %w", raceID, participantID, ErrAlreadyOnRoster)
		}
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// RemoveParticipant deletes the membership row and reports whether it existed.
func (e *Engine) RemoveParticipant(ctx context.Context, raceID, participantID int64) (bool, error) {
	res, err := e.db.NewDelete().
		Model((*models.RosterEntry)(nil)).
		Where("race_id = ?", raceID).
		Where("participant_id = ?", participantID).
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

// Participants returns the race's roster. No ordering is defined; the query
// sorts by id only to keep results stable.
func (e *Engine) Participants(ctx context.Context, raceID int64) ([]models.Participant, error) {
	if err := raceExists(ctx, e.db, raceID); err != nil {
		return nil, wrapStorage(err)
	}

	participants := make([]models.Participant, 0)
	err := e.db.NewSelect().
		Model(&participants).
		Join("INNER JOIN race_participants rp ON rp.participant_id = p.id").
		Where("rp.race_id = ?", raceID).
		OrderExpr("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return participants, nil
}
