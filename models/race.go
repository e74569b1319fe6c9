package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Race is an orienteering race. IsActive means crossings against this race's
// course are currently acceptable.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	ScheduledAt time.Time `bun:"scheduled_at,notnull" json:"scheduledAt"`
	Location    string    `bun:"location,notnull,default:''" json:"location"`
	IsActive    bool      `bun:"is_active,notnull,default:false" json:"isActive"`
}

// RaceUpdate carries optional field overrides for a partial update.
type RaceUpdate struct {
	Name        *string    `json:"name,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Location    *string    `json:"location,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

// Merge returns a copy of r with the set fields of u applied.
func (r Race) Merge(u RaceUpdate) Race {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.ScheduledAt != nil {
		r.ScheduledAt = *u.ScheduledAt
	}
	if u.Location != nil {
		r.Location = *u.Location
	}
	if u.IsActive != nil {
		r.IsActive = *u.IsActive
	}
	return r
}
