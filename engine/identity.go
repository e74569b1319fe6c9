package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padraicbc/orientapi/models"
)

// ParticipantByTag resolves the participant carrying the given RFID tag.
// Returns ErrUnknownParticipant when the tag is not registered.
func (e *Engine) ParticipantByTag(ctx context.Context, tagID int64) (*models.Participant, error) {
	p := new(models.Participant)
	err := e.db.NewSelect().Model(p).Where("p.tag_id = ?", tagID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %d: %w", tagID, ErrUnknownParticipant)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return p, nil
}

// CheckpointByExternalID resolves a checkpoint by its device-provisioned
// external id. Returns ErrUnknownCheckpoint when no such device is registered,
// so operators can tell mis-provisioned hardware from unregistered tags.
func (e *Engine) CheckpointByExternalID(ctx context.Context, externalID string) (*models.Checkpoint, error) {
	cp := new(models.Checkpoint)
	err := e.db.NewSelect().Model(cp).Where("cp.external_id = ?", externalID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("external id %q: %w", externalID, ErrUnknownCheckpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return cp, nil
}
