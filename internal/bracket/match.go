package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "PENDING"
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchCompleted MatchStatus = "COMPLETED"
)

type BracketSide string

const (
	WinnersSide BracketSide = "winners"
	LosersSide  BracketSide = "losers"
	FinalsSide  BracketSide = "finals"
)

func (s BracketSide) Valid() bool {
	return s == WinnersSide || s == LosersSide || s == FinalsSide
}

var sideOrder = map[BracketSide]int{WinnersSide: 0, LosersSide: 1, FinalsSide: 2}

type Round struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TournamentID string      `db:"tournament_id" json:"tournament_id"`
	BracketSide  BracketSide `db:"bracket_side" json:"bracket_side"`
	RoundNumber  int         `db:"round_number" json:"round_number"`
	Name         string      `db:"name" json:"name"`
	IsCompleted  bool        `db:"is_completed" json:"is_completed"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID string    `db:"tournament_id" json:"tournament_id"`
	RoundID      uuid.UUID `db:"round_id" json:"round_id"`

	// Position in the tournament for reconstructing the view
	BracketSide BracketSide `db:"bracket_side" json:"bracket_side"`
	RoundNumber int         `db:"round_number" json:"round_number"`
	MatchOrder  int         `db:"match_order" json:"match_order"`
	Number      int         `db:"match_number" json:"match_number"`

	Entry1ID *uuid.UUID `db:"entry_1_id" json:"entry_1_id,omitempty"`
	Entry2ID *uuid.UUID `db:"entry_2_id" json:"entry_2_id,omitempty"`

	// Upstream matches whose winner (or loser) fills a slot once decided
	Source1MatchID *uuid.UUID `db:"source_1_match_id" json:"source_1_match_id,omitempty"`
	Source1Loser   bool       `db:"source_1_loser" json:"source_1_loser"`
	Source2MatchID *uuid.UUID `db:"source_2_match_id" json:"source_2_match_id,omitempty"`
	Source2Loser   bool       `db:"source_2_loser" json:"source_2_loser"`

	WinnerNextMatchID *uuid.UUID `db:"winner_next_match_id" json:"winner_next_match_id,omitempty"`
	WinnerNextSlot    *int       `db:"winner_next_slot" json:"winner_next_slot,omitempty"`

	LoserNextMatchID *uuid.UUID `db:"loser_next_match_id" json:"loser_next_match_id,omitempty"`
	LoserNextSlot    *int       `db:"loser_next_slot" json:"loser_next_slot,omitempty"`

	WinnerID *uuid.UUID  `db:"winner_id" json:"winner_id,omitempty"`
	Status   MatchStatus `db:"status" json:"status"`
	IsBye    bool        `db:"is_bye" json:"is_bye"`

	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

func (m *Match) Entry(slot int) *uuid.UUID {
	if slot == 1 {
		return m.Entry1ID
	}
	return m.Entry2ID
}

func (m *Match) Source(slot int) (*uuid.UUID, bool) {
	if slot == 1 {
		return m.Source1MatchID, m.Source1Loser
	}
	return m.Source2MatchID, m.Source2Loser
}

// A bye match has exactly one wired slot.
func (m *Match) HasInput(slot int) bool {
	src, _ := m.Source(slot)
	return m.Entry(slot) != nil || src != nil
}

func (m *Match) HasParticipant(id uuid.UUID) bool {
	return (m.Entry1ID != nil && *m.Entry1ID == id) || (m.Entry2ID != nil && *m.Entry2ID == id)
}

func (m *Match) Opponent(id uuid.UUID) *uuid.UUID {
	switch {
	case m.Entry1ID != nil && *m.Entry1ID == id:
		return m.Entry2ID
	case m.Entry2ID != nil && *m.Entry2ID == id:
		return m.Entry1ID
	}
	return nil
}

func (m *Match) setEntry(slot int, id uuid.UUID) {
	if slot == 1 {
		m.Entry1ID = &id
	} else {
		m.Entry2ID = &id
	}
}

func (m *Match) setSource(slot int, id uuid.UUID, loser bool) {
	if slot == 1 {
		m.Source1MatchID, m.Source1Loser = &id, loser
	} else {
		m.Source2MatchID, m.Source2Loser = &id, loser
	}
}
