package bracket

import (
	"sort"

	"github.com/google/uuid"
)

// Topology is the in-memory round/match graph of one tournament.
type Topology struct {
	TournamentID string
	Format       Format
	Rounds       []*Round
	Matches      []*Match

	byID         map[uuid.UUID]*Match
	roundByID    map[uuid.UUID]*Round
	roundMatches map[uuid.UUID][]*Match
	dirtyMatches map[uuid.UUID]bool
	dirtyRounds  map[uuid.UUID]bool
}

func newTopology(tournamentID string, format Format) *Topology {
	return &Topology{
		TournamentID: tournamentID,
		Format:       format,
		byID:         make(map[uuid.UUID]*Match),
		roundByID:    make(map[uuid.UUID]*Round),
		roundMatches: make(map[uuid.UUID][]*Match),
		dirtyMatches: make(map[uuid.UUID]bool),
		dirtyRounds:  make(map[uuid.UUID]bool),
	}
}

func NewTopology(tournamentID string, format Format, rounds []Round, matches []Match) *Topology {
	t := newTopology(tournamentID, format)
	for i := range rounds {
		r := rounds[i]
		t.addRound(&r)
	}
	for i := range matches {
		m := matches[i]
		t.addMatch(&m)
	}
	t.sort()
	return t
}

func (t *Topology) addRound(r *Round) {
	t.Rounds = append(t.Rounds, r)
	t.roundByID[r.ID] = r
}

func (t *Topology) addMatch(m *Match) {
	t.Matches = append(t.Matches, m)
	t.byID[m.ID] = m
	t.roundMatches[m.RoundID] = append(t.roundMatches[m.RoundID], m)
}

func (t *Topology) sort() {
	sort.SliceStable(t.Rounds, func(i, j int) bool {
		a, b := t.Rounds[i], t.Rounds[j]
		if a.BracketSide != b.BracketSide {
			return sideOrder[a.BracketSide] < sideOrder[b.BracketSide]
		}
		return a.RoundNumber < b.RoundNumber
	})
	sort.SliceStable(t.Matches, func(i, j int) bool {
		a, b := t.Matches[i], t.Matches[j]
		if a.BracketSide != b.BracketSide {
			return sideOrder[a.BracketSide] < sideOrder[b.BracketSide]
		}
		if a.RoundNumber != b.RoundNumber {
			return a.RoundNumber < b.RoundNumber
		}
		return a.MatchOrder < b.MatchOrder
	})
	for id, matches := range t.roundMatches {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].MatchOrder < matches[j].MatchOrder
		})
		t.roundMatches[id] = matches
	}
}

func (t *Topology) Match(id uuid.UUID) (*Match, bool) {
	m, ok := t.byID[id]
	return m, ok
}

func (t *Topology) Round(id uuid.UUID) (*Round, bool) {
	r, ok := t.roundByID[id]
	return r, ok
}

func (t *Topology) RoundMatches(roundID uuid.UUID) []*Match {
	return t.roundMatches[roundID]
}

func (t *Topology) SideRounds(side BracketSide) []*Round {
	var rounds []*Round
	for _, r := range t.Rounds {
		if r.BracketSide == side {
			rounds = append(rounds, r)
		}
	}
	return rounds
}

func (t *Topology) roundAt(side BracketSide, number int) *Round {
	for _, r := range t.Rounds {
		if r.BracketSide == side && r.RoundNumber == number {
			return r
		}
	}
	return nil
}

func (t *Topology) matchAt(side BracketSide, round, order int) *Match {
	for _, m := range t.Matches {
		if m.BracketSide == side && m.RoundNumber == round && m.MatchOrder == order {
			return m
		}
	}
	return nil
}

func (t *Topology) IsComplete() bool {
	if len(t.Matches) == 0 {
		return false
	}
	for _, m := range t.Matches {
		if m.Status != MatchCompleted {
			return false
		}
	}
	return true
}

// RoundOneSlots returns two slots per round one match, nil for a bye.
func (t *Topology) RoundOneSlots() []*uuid.UUID {
	first := t.roundAt(WinnersSide, 1)
	if first == nil {
		return nil
	}
	var slots []*uuid.UUID
	for _, m := range t.RoundMatches(first.ID) {
		slots = append(slots, m.Entry1ID, m.Entry2ID)
	}
	return slots
}

func (t *Topology) HasRecordedResult(participantID uuid.UUID) bool {
	for _, m := range t.Matches {
		if m.Status == MatchCompleted && !m.IsBye && m.HasParticipant(participantID) {
			return true
		}
	}
	return false
}

func (t *Topology) Layout(participantCount int) Layout {
	layout := Layout{
		TournamentID:     t.TournamentID,
		Format:           t.Format,
		RoundCount:       len(t.SideRounds(WinnersSide)),
		LosersRoundCount: len(t.SideRounds(LosersSide)),
		ParticipantCount: participantCount,
	}

	var final *Round
	switch t.Format {
	case DoubleElimination:
		if rounds := t.SideRounds(FinalsSide); len(rounds) > 0 {
			final = rounds[len(rounds)-1]
		}
	case Knockout:
		if rounds := t.SideRounds(WinnersSide); len(rounds) > 0 {
			final = rounds[len(rounds)-1]
		}
	}
	if final != nil {
		id := final.ID
		layout.FinalRoundID = &id
	}
	return layout
}

func (t *Topology) touchMatch(m *Match) {
	t.dirtyMatches[m.ID] = true
}

func (t *Topology) touchRound(r *Round) {
	t.dirtyRounds[r.ID] = true
}

// Changes returns what was modified since the last call and clears it.
func (t *Topology) Changes() ([]Match, []Round) {
	var matches []Match
	for _, m := range t.Matches {
		if t.dirtyMatches[m.ID] {
			matches = append(matches, *m)
		}
	}
	var rounds []Round
	for _, r := range t.Rounds {
		if t.dirtyRounds[r.ID] {
			rounds = append(rounds, *r)
		}
	}
	t.dirtyMatches = make(map[uuid.UUID]bool)
	t.dirtyRounds = make(map[uuid.UUID]bool)
	return matches, rounds
}

func (t *Topology) MatchValues() []Match {
	matches := make([]Match, 0, len(t.Matches))
	for _, m := range t.Matches {
		matches = append(matches, *m)
	}
	return matches
}

func (t *Topology) RoundValues() []Round {
	rounds := make([]Round, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		rounds = append(rounds, *r)
	}
	return rounds
}
