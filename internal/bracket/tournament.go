package bracket

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentPending   TournamentStatus = "PENDING"
	TournamentActive    TournamentStatus = "ACTIVE"
	TournamentCompleted TournamentStatus = "COMPLETED"
)

type Format string

const (
	Knockout          Format = "knockout"
	DoubleElimination Format = "double_elimination_bracket"
	RoundRobin        Format = "round_robin"
)

func (f Format) Valid() bool {
	switch f {
	case Knockout, DoubleElimination, RoundRobin:
		return true
	}
	return false
}

type GameType string

const (
	TeamGame       GameType = "team"
	IndividualGame GameType = "individual"
)

func (g GameType) Valid() bool {
	return g == TeamGame || g == IndividualGame
}

func (g GameType) ParticipantKind() ParticipantKind {
	if g == TeamGame {
		return TeamParticipant
	}
	return PlayerParticipant
}

type FixingPolicy string

const (
	FixSequential  FixingPolicy = "sequential"
	FixRandom      FixingPolicy = "random"
	FixManual      FixingPolicy = "manual"
	FixTopVsBottom FixingPolicy = "top_vs_bottom"
)

func (p FixingPolicy) Valid() bool {
	switch p {
	case FixSequential, FixRandom, FixManual, FixTopVsBottom:
		return true
	}
	return false
}

const (
	MinParticipants = 4
	MaxParticipants = 50
)

var tournamentIDPattern = regexp.MustCompile(`^TMT[0-9]{12}$`)

func ValidTournamentID(id string) bool {
	return tournamentIDPattern.MatchString(id)
}

type Tournament struct {
	ID               string           `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Format           Format           `db:"format" json:"format"`
	GameType         GameType         `db:"game_type" json:"game_type"`
	FixingPolicy     FixingPolicy     `db:"fixing_policy" json:"fixing_policy"`
	ParticipantCount int              `db:"participant_count" json:"participant_count"`
	Status           TournamentStatus `db:"status" json:"status"`
	IsDeleted        bool             `db:"is_deleted" json:"is_deleted"`
	DeleteRemark     *string          `db:"delete_remark" json:"delete_remark,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}

func CheckParticipantCount(n int) error {
	if n < MinParticipants || n > MaxParticipants {
		return Validation("participant_count", "must be between %d and %d, got %d", MinParticipants, MaxParticipants, n)
	}
	return nil
}

type Layout struct {
	TournamentID     string     `db:"tournament_id" json:"tournament_id"`
	Format           Format     `db:"format" json:"format"`
	RoundCount       int        `db:"round_count" json:"round_count"`
	LosersRoundCount int        `db:"losers_round_count" json:"losers_round_count"`
	FinalRoundID     *uuid.UUID `db:"final_round_id" json:"final_round_id,omitempty"`
	ParticipantCount int        `db:"participant_count" json:"participant_count"`
}
