package engine

import (
	"context"
	"fmt"

	"github.com/padraicbc/orientapi/models"
)

// ActiveRacesForCheckpoint returns every active race whose course contains the
// checkpoint, regardless of its position. An empty slice with a nil error is a
// valid answer: the checkpoint is not currently part of any live race.
func (e *Engine) ActiveRacesForCheckpoint(ctx context.Context, checkpointID int64) ([]models.Race, error) {
	races := make([]models.Race, 0)
	err := e.db.NewSelect().
		Model(&races).
		Join("INNER JOIN race_checkpoints cc ON cc.race_id = rc.id").
		Where("cc.checkpoint_id = ?", checkpointID).
		Where("rc.is_active = TRUE").
		OrderExpr("rc.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return races, nil
}
