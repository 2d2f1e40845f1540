package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const ByeLabel = "BYE"

type FixtureSlot struct {
	ParticipantID *uuid.UUID `json:"participant_id,omitempty"`
	Name          string     `json:"name"`
	Placeholder   bool       `json:"placeholder"`
}

type FixtureMatch struct {
	ID          uuid.UUID      `json:"id"`
	Number      int            `json:"match_number"`
	Order       int            `json:"match_order"`
	Status      MatchStatus    `json:"status"`
	IsBye       bool           `json:"is_bye"`
	Slots       [2]FixtureSlot `json:"slots"`
	WinnerID    *uuid.UUID     `json:"winner_id,omitempty"`
	WinnerName  string         `json:"winner_name,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
}

type FixtureRound struct {
	ID          uuid.UUID      `json:"id"`
	Number      int            `json:"round_number"`
	Name        string         `json:"name"`
	IsCompleted bool           `json:"is_completed"`
	Matches     []FixtureMatch `json:"matches"`
}

type Fixtures struct {
	TournamentID string         `json:"tournament_id"`
	Format       Format         `json:"format"`
	Bracket      BracketSide    `json:"bracket"`
	Rounds       []FixtureRound `json:"rounds"`
}

// Fixtures names slots still waiting on an upstream match after that match.
func (t *Topology) Fixtures(side BracketSide, names map[uuid.UUID]string) (*Fixtures, error) {
	rounds := t.SideRounds(side)
	if len(rounds) == 0 {
		return nil, NotFound("bracket", string(side))
	}

	fixtures := &Fixtures{
		TournamentID: t.TournamentID,
		Format:       t.Format,
		Bracket:      side,
		Rounds:       make([]FixtureRound, 0, len(rounds)),
	}
	for _, r := range rounds {
		round := FixtureRound{
			ID:          r.ID,
			Number:      r.RoundNumber,
			Name:        r.Name,
			IsCompleted: r.IsCompleted,
		}
		for _, m := range t.RoundMatches(r.ID) {
			fm := FixtureMatch{
				ID:          m.ID,
				Number:      m.Number,
				Order:       m.MatchOrder,
				Status:      m.Status,
				IsBye:       m.IsBye,
				WinnerID:    m.WinnerID,
				ScheduledAt: m.ScheduledAt,
			}
			for slot := 1; slot <= 2; slot++ {
				fm.Slots[slot-1] = t.fixtureSlot(m, slot, names)
			}
			if m.WinnerID != nil {
				fm.WinnerName = participantName(*m.WinnerID, names)
			}
			round.Matches = append(round.Matches, fm)
		}
		fixtures.Rounds = append(fixtures.Rounds, round)
	}
	return fixtures, nil
}

func (t *Topology) fixtureSlot(m *Match, slot int, names map[uuid.UUID]string) FixtureSlot {
	if entry := m.Entry(slot); entry != nil {
		id := *entry
		return FixtureSlot{ParticipantID: &id, Name: participantName(id, names)}
	}

	src, loser := m.Source(slot)
	if src == nil {
		return FixtureSlot{Name: ByeLabel}
	}

	number := 0
	if upstream, ok := t.byID[*src]; ok {
		number = upstream.Number
	}
	outcome := "Winner"
	if loser {
		outcome = "Loser"
	}
	return FixtureSlot{Name: fmt.Sprintf("%s of Match %d", outcome, number), Placeholder: true}
}

func participantName(id uuid.UUID, names map[uuid.UUID]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id.String()
}
