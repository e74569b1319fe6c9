package models

import "github.com/uptrace/bun"

// Checkpoint is a physical scanning point. ExternalID is assigned at
// device-provisioning time; the label is filled in later by an operator.
type Checkpoint struct {
	bun.BaseModel `bun:"table:checkpoints,alias:cp"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	ExternalID string `bun:"external_id,notnull,unique" json:"externalId"`
	Label      string `bun:"label,notnull,default:''" json:"label"`
}

// CheckpointUpdate carries optional field overrides for a partial update.
type CheckpointUpdate struct {
	Label *string `json:"label,omitempty"`
}

// Merge returns a copy of c with the set fields of u applied.
func (c Checkpoint) Merge(u CheckpointUpdate) Checkpoint {
	if u.Label != nil {
		c.Label = *u.Label
	}
	return c
}
