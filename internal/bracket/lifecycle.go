package bracket

var tournamentTransitions = map[TournamentStatus][]TournamentStatus{
	TournamentPending: {TournamentActive, TournamentCompleted},
	TournamentActive:  {TournamentCompleted},
}

func Transition(from, to TournamentStatus) (TournamentStatus, error) {
	for _, next := range tournamentTransitions[from] {
		if next == to {
			return to, nil
		}
	}
	return from, State("tournament cannot move from %s to %s", from, to)
}

var matchTransitions = map[MatchStatus][]MatchStatus{
	MatchPending:   {MatchScheduled, MatchCompleted},
	MatchScheduled: {MatchCompleted},
}

// PENDING can jump to COMPLETED for byes.
func transitionMatch(m *Match, to MatchStatus) error {
	for _, next := range matchTransitions[m.Status] {
		if next == to {
			m.Status = to
			return nil
		}
	}
	return State("match %d cannot move from %s to %s", m.Number, m.Status, to)
}

func (t *Tournament) IsRebalanceable() bool {
	return t.Status == TournamentPending
}
