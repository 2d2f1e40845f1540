package bracket

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantKind string

const (
	TeamParticipant   ParticipantKind = "team"
	PlayerParticipant ParticipantKind = "player"
)

type Participant struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	TournamentID string          `db:"tournament_id" json:"tournament_id"`
	Kind         ParticipantKind `db:"kind" json:"kind"`
	Name         string          `db:"name" json:"name"`
	Seed         int             `db:"seed" json:"seed"`
	Rank         *int            `db:"rank" json:"rank,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
