package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CrossingEvent records that a participant passed a checkpoint within one
// race's context. The timestamp is the scanning device's wall clock, not the
// server's. Immutable once created except for deletion.
type CrossingEvent struct {
	bun.BaseModel `bun:"table:crossing_events,alias:ev"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	ParticipantID int64     `bun:"participant_id,notnull" json:"participantId"`
	CheckpointID  int64     `bun:"checkpoint_id,notnull" json:"checkpointId"`
	RaceID        int64     `bun:"race_id,notnull" json:"raceId"`
	Timestamp     time.Time `bun:"ts,notnull" json:"timestamp"`

	Participant *Participant `bun:"rel:belongs-to,join:participant_id=id" json:"-"`
	Checkpoint  *Checkpoint  `bun:"rel:belongs-to,join:checkpoint_id=id" json:"-"`
	Race        *Race        `bun:"rel:belongs-to,join:race_id=id" json:"-"`
}
