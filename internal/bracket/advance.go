package bracket

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ReportWinner completes byes met on the way automatically.
func (t *Topology) ReportWinner(matchID, winnerID uuid.UUID, at time.Time) (*Match, error) {
	m, ok := t.byID[matchID]
	if !ok {
		return nil, NotFound("match", matchID.String())
	}

	switch m.Status {
	case MatchCompleted:
		return nil, State("match %d already has a result", m.Number)
	case MatchPending:
		return nil, State("match %d is still waiting on its participants", m.Number)
	}

	if !m.HasParticipant(winnerID) {
		return nil, Validation("winner_id", "%s is not a participant of match %d", winnerID, m.Number)
	}

	if err := t.complete(m, winnerID, m.Opponent(winnerID), at); err != nil {
		return nil, err
	}
	return m, nil
}

func (t *Topology) Schedule(matchID uuid.UUID, at time.Time) (*Match, error) {
	m, ok := t.byID[matchID]
	if !ok {
		return nil, NotFound("match", matchID.String())
	}
	if m.Status == MatchCompleted {
		return nil, State("match %d already has a result", m.Number)
	}
	m.ScheduledAt = &at
	t.touchMatch(m)
	return m, nil
}

func (t *Topology) complete(m *Match, winner uuid.UUID, loser *uuid.UUID, at time.Time) error {
	if err := transitionMatch(m, MatchCompleted); err != nil {
		return err
	}
	m.WinnerID = &winner
	m.CompletedAt = &at
	t.touchMatch(m)

	if m.WinnerNextMatchID != nil && m.WinnerNextSlot != nil {
		if err := t.bind(*m.WinnerNextMatchID, *m.WinnerNextSlot, winner, at); err != nil {
			return err
		}
	}
	if loser != nil && m.LoserNextMatchID != nil && m.LoserNextSlot != nil {
		if err := t.bind(*m.LoserNextMatchID, *m.LoserNextSlot, *loser, at); err != nil {
			return err
		}
	}

	t.refreshRound(m.RoundID)
	return nil
}

func (t *Topology) bind(matchID uuid.UUID, slot int, participant uuid.UUID, at time.Time) error {
	next, ok := t.byID[matchID]
	if !ok {
		return fmt.Errorf("tournament %s links to unknown match %s", t.TournamentID, matchID)
	}
	if next.Entry(slot) != nil {
		return fmt.Errorf("slot %d of match %d is already filled", slot, next.Number)
	}

	next.setEntry(slot, participant)
	t.touchMatch(next)
	return t.settle(next, at)
}

func (t *Topology) settle(m *Match, at time.Time) error {
	if m.Status == MatchCompleted {
		return nil
	}

	if m.IsBye {
		for slot := 1; slot <= 2; slot++ {
			if entry := m.Entry(slot); entry != nil {
				return t.complete(m, *entry, nil, at)
			}
		}
		return nil
	}

	if m.Status == MatchPending && m.Entry1ID != nil && m.Entry2ID != nil {
		if err := transitionMatch(m, MatchScheduled); err != nil {
			return err
		}
		t.touchMatch(m)
	}
	return nil
}

func (t *Topology) refreshRound(roundID uuid.UUID) {
	r, ok := t.roundByID[roundID]
	if !ok {
		return
	}
	completed := true
	for _, m := range t.roundMatches[roundID] {
		if m.Status != MatchCompleted {
			completed = false
			break
		}
	}
	if r.IsCompleted != completed {
		r.IsCompleted = completed
		t.touchRound(r)
	}
}

// Replay re-applies results of previous where the same two participants
// meet at the same position. It returns the number carried over.
func (t *Topology) Replay(previous *Topology) int {
	var played []*Match
	for _, m := range previous.Matches {
		if m.Status == MatchCompleted && !m.IsBye && m.WinnerID != nil {
			played = append(played, m)
		}
	}
	sort.SliceStable(played, func(i, j int) bool {
		a, b := played[i], played[j]
		if a.CompletedAt != nil && b.CompletedAt != nil && !a.CompletedAt.Equal(*b.CompletedAt) {
			return a.CompletedAt.Before(*b.CompletedAt)
		}
		return a.Number < b.Number
	})

	applied := 0
	pending := played
	for progress := true; progress && len(pending) > 0; {
		progress = false
		var rest []*Match
		for _, old := range pending {
			m := t.matchAt(old.BracketSide, old.RoundNumber, old.MatchOrder)
			if m == nil || m.Status != MatchScheduled || !sameEntries(m, old) {
				rest = append(rest, old)
				continue
			}
			at := time.Now().UTC()
			if old.CompletedAt != nil {
				at = *old.CompletedAt
			}
			if _, err := t.ReportWinner(m.ID, *old.WinnerID, at); err != nil {
				rest = append(rest, old)
				continue
			}
			applied++
			progress = true
		}
		pending = rest
	}
	return applied
}

func sameEntries(a, b *Match) bool {
	if a.Entry1ID == nil || a.Entry2ID == nil || b.Entry1ID == nil || b.Entry2ID == nil {
		return false
	}
	return (*a.Entry1ID == *b.Entry1ID && *a.Entry2ID == *b.Entry2ID) ||
		(*a.Entry1ID == *b.Entry2ID && *a.Entry2ID == *b.Entry1ID)
}
