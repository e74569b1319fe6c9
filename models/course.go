package models

import "github.com/uptrace/bun"

// CourseEntry places one checkpoint at a position within a race's course.
// Position is a 1-based rank, unique per race; gaps may appear after removals
// but relative order always defines the course.
type CourseEntry struct {
	bun.BaseModel `bun:"table:race_checkpoints,alias:cc"`

	RaceID       int64 `bun:"race_id,pk" json:"raceId"`
	CheckpointID int64 `bun:"checkpoint_id,pk" json:"checkpointId"`
	Position     int   `bun:"position,notnull" json:"position"`

	Race       *Race       `bun:"rel:belongs-to,join:race_id=id" json:"-"`
	Checkpoint *Checkpoint `bun:"rel:belongs-to,join:checkpoint_id=id" json:"-"`
}
