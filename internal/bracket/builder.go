package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BuildSpec struct {
	TournamentID string
	Format       Format

	// Two per round one match; nil is a bye.
	Slots []*uuid.UUID

	// Previous donates round and match ids by bracket position.
	Previous *Topology

	Now time.Time
}

type builder struct {
	topo     *Topology
	previous *Topology
	number   int
}

func Build(spec BuildSpec) (*Topology, error) {
	if !spec.Format.Valid() {
		return nil, Validation("format", "unsupported format %q", spec.Format)
	}

	ids, err := slotParticipants(spec.Slots)
	if err != nil {
		return nil, err
	}
	if len(ids) < 2 {
		return nil, Validation("participant_count", "at least 2 participants are required, got %d", len(ids))
	}

	b := &builder{
		topo:     newTopology(spec.TournamentID, spec.Format),
		previous: spec.Previous,
	}

	switch spec.Format {
	case Knockout:
		_, err = b.buildWinners(spec.Slots, false)
	case DoubleElimination:
		err = b.buildDoubleElimination(spec.Slots)
	case RoundRobin:
		b.buildRoundRobin(ids)
	}
	if err != nil {
		return nil, err
	}

	t := b.topo
	t.sort()
	for _, m := range t.Matches {
		if err := t.settle(m, spec.Now); err != nil {
			return nil, err
		}
	}
	for _, r := range t.Rounds {
		t.refreshRound(r.ID)
	}
	// A fresh topology is persisted whole.
	t.Changes()
	return t, nil
}

func slotParticipants(slots []*uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(slots))
	ids := make([]uuid.UUID, 0, len(slots))
	for _, s := range slots {
		if s == nil {
			continue
		}
		if seen[*s] {
			return nil, Validation("participants", "participant %s is seeded twice", *s)
		}
		seen[*s] = true
		ids = append(ids, *s)
	}
	return ids, nil
}

func (b *builder) addRound(side BracketSide, number int, name string) *Round {
	id := uuid.New()
	if b.previous != nil {
		if old := b.previous.roundAt(side, number); old != nil {
			id = old.ID
		}
	}
	r := &Round{
		ID:           id,
		TournamentID: b.topo.TournamentID,
		BracketSide:  side,
		RoundNumber:  number,
		Name:         name,
	}
	b.topo.addRound(r)
	return r
}

func (b *builder) addMatch(round *Round, order int) *Match {
	id := uuid.New()
	if b.previous != nil {
		if old := b.previous.matchAt(round.BracketSide, round.RoundNumber, order); old != nil {
			id = old.ID
		}
	}
	b.number++
	m := &Match{
		ID:           id,
		TournamentID: b.topo.TournamentID,
		RoundID:      round.ID,
		BracketSide:  round.BracketSide,
		RoundNumber:  round.RoundNumber,
		MatchOrder:   order,
		Number:       b.number,
		Status:       MatchPending,
	}
	b.topo.addMatch(m)
	return m
}

func link(from *Match, loser bool, to *Match, slot int) {
	next, nextSlot := to.ID, slot
	if loser {
		from.LoserNextMatchID, from.LoserNextSlot = &next, &nextSlot
	} else {
		from.WinnerNextMatchID, from.WinnerNextSlot = &next, &nextSlot
	}
	to.setSource(slot, from.ID, loser)
}

// An odd match out is fed alone and becomes a bye.
func (b *builder) buildWinners(slots []*uuid.UUID, double bool) ([][]*Match, error) {
	if len(slots) == 0 || len(slots)%2 != 0 {
		return nil, Validation("slots", "round one needs an even number of slots, got %d", len(slots))
	}

	first := len(slots) / 2
	total := 1
	for c := first; c > 1; c = (c + 1) / 2 {
		total++
	}

	var rounds [][]*Match
	var prev []*Match
	for r := 1; r <= total; r++ {
		count := first
		if r > 1 {
			count = (len(prev) + 1) / 2
		}

		round := b.addRound(WinnersSide, r, winnersRoundName(r, total, double))
		current := make([]*Match, 0, count)
		for j := 0; j < count; j++ {
			m := b.addMatch(round, j+1)
			if r == 1 {
				e1, e2 := slots[2*j], slots[2*j+1]
				if e1 == nil && e2 == nil {
					return nil, Validation("slots", "round one match %d has no participants", j+1)
				}
				if e1 != nil {
					m.setEntry(1, *e1)
				}
				if e2 != nil {
					m.setEntry(2, *e2)
				}
			} else {
				link(prev[2*j], false, m, 1)
				if 2*j+1 < len(prev) {
					link(prev[2*j+1], false, m, 2)
				}
			}
			m.IsBye = !(m.HasInput(1) && m.HasInput(2))
			current = append(current, m)
		}
		rounds = append(rounds, current)
		prev = current
	}
	return rounds, nil
}

func winnersRoundName(round, total int, double bool) string {
	prefix := ""
	if double {
		prefix = "Winners "
	}
	switch total - round {
	case 0:
		return prefix + "Final"
	case 1:
		return prefix + "Semi Final"
	case 2:
		return prefix + "Quarter Final"
	}
	return fmt.Sprintf("%sRound %d", prefix, round)
}
