package models

import "github.com/uptrace/bun"

// RosterEntry registers one participant to a race. Plain membership, no order.
type RosterEntry struct {
	bun.BaseModel `bun:"table:race_participants,alias:rp"`

	RaceID        int64 `bun:"race_id,pk" json:"raceId"`
	ParticipantID int64 `bun:"participant_id,pk" json:"participantId"`

	Race        *Race        `bun:"rel:belongs-to,join:race_id=id" json:"-"`
	Participant *Participant `bun:"rel:belongs-to,join:participant_id=id" json:"-"`
}
