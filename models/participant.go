package models

import "github.com/uptrace/bun"

// Participant is a registered runner carrying an RFID tag.
type Participant struct {
	bun.BaseModel `bun:"table:participants,alias:p"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	TagID     int64  `bun:"tag_id,notnull,unique" json:"tagId"`
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
}

// ParticipantUpdate carries optional field overrides for a partial update.
// Nil fields are left untouched.
type ParticipantUpdate struct {
	TagID     *int64  `json:"tagId,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Merge returns a copy of p with the set fields of u applied.
func (p Participant) Merge(u ParticipantUpdate) Participant {
	if u.TagID != nil {
		p.TagID = *u.TagID
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	return p
}
