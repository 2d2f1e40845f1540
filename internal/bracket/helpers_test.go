package bracket

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func makeParticipants(n int) []Participant {
	participants := make([]Participant, n)
	for i := range participants {
		participants[i] = Participant{
			ID:           uuid.New(),
			TournamentID: "TMT000000000001",
			Kind:         TeamParticipant,
			Name:         fmt.Sprintf("Team %d", i+1),
			Seed:         i + 1,
		}
	}
	return participants
}

func slotIDs(slots []*Participant) []*uuid.UUID {
	ids := make([]*uuid.UUID, len(slots))
	for i, p := range slots {
		if p != nil {
			id := p.ID
			ids[i] = &id
		}
	}
	return ids
}

func buildFor(t *testing.T, format Format, participants []Participant) *Topology {
	t.Helper()
	seeding, err := Seed(participants, FixSequential, nil, nil)
	require.NoError(t, err)
	topo, err := Build(BuildSpec{
		TournamentID: "TMT000000000001",
		Format:       format,
		Slots:        slotIDs(seeding.Slots),
		Now:          testTime,
	})
	require.NoError(t, err)
	return topo
}

func roundSizes(topo *Topology, side BracketSide) []int {
	var sizes []int
	for _, r := range topo.SideRounds(side) {
		sizes = append(sizes, len(topo.RoundMatches(r.ID)))
	}
	return sizes
}

// playAll reports entry 1 of every scheduled match until nothing is left to
// play, returning the matches in the order they were decided.
func playAll(t *testing.T, topo *Topology) []*Match {
	t.Helper()
	var played []*Match
	at := testTime
	for {
		var next *Match
		for _, m := range topo.Matches {
			if m.Status == MatchScheduled {
				next = m
				break
			}
		}
		if next == nil {
			return played
		}
		at = at.Add(time.Minute)
		_, err := topo.ReportWinner(next.ID, *next.Entry1ID, at)
		require.NoError(t, err)
		played = append(played, next)
	}
}
