package bracket

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWinnerPropagatesToNextRound(t *testing.T) {
	participants := makeParticipants(4)
	topo := buildFor(t, Knockout, participants)

	rounds := topo.SideRounds(WinnersSide)
	r1 := topo.RoundMatches(rounds[0].ID)
	final := topo.RoundMatches(rounds[1].ID)[0]

	m, err := topo.ReportWinner(r1[0].ID, participants[1].ID, testTime)
	require.NoError(t, err)
	assert.Equal(t, MatchCompleted, m.Status)
	assert.Equal(t, participants[1].ID, *m.WinnerID)
	assert.Equal(t, testTime, *m.CompletedAt)

	require.NotNil(t, final.Entry1ID)
	assert.Equal(t, participants[1].ID, *final.Entry1ID)
	assert.Nil(t, final.Entry2ID)
	assert.Equal(t, MatchPending, final.Status)
	assert.False(t, rounds[0].IsCompleted)

	matches, changedRounds := topo.Changes()
	assert.Len(t, matches, 2)
	assert.Empty(t, changedRounds)

	_, err = topo.ReportWinner(r1[1].ID, participants[2].ID, testTime)
	require.NoError(t, err)
	assert.Equal(t, participants[2].ID, *final.Entry2ID)
	assert.Equal(t, MatchScheduled, final.Status)
	assert.True(t, rounds[0].IsCompleted)

	matches, changedRounds = topo.Changes()
	assert.Len(t, matches, 2)
	require.Len(t, changedRounds, 1)
	assert.Equal(t, rounds[0].ID, changedRounds[0].ID)

	_, err = topo.ReportWinner(final.ID, participants[2].ID, testTime)
	require.NoError(t, err)
	assert.True(t, topo.IsComplete())
	assert.True(t, rounds[1].IsCompleted)
}

func TestReportWinnerRejectsSecondResult(t *testing.T) {
	participants := makeParticipants(4)
	topo := buildFor(t, Knockout, participants)
	match := topo.Matches[0]

	_, err := topo.ReportWinner(match.ID, participants[0].ID, testTime)
	require.NoError(t, err)
	topo.Changes()

	_, err = topo.ReportWinner(match.ID, participants[1].ID, testTime.Add(1))
	var serr *StateError
	require.True(t, errors.As(err, &serr), "got %v", err)

	assert.Equal(t, participants[0].ID, *match.WinnerID)
	assert.Equal(t, testTime, *match.CompletedAt)
	matches, rounds := topo.Changes()
	assert.Empty(t, matches)
	assert.Empty(t, rounds)
}

func TestReportWinnerErrors(t *testing.T) {
	participants := makeParticipants(4)
	topo := buildFor(t, Knockout, participants)
	r1 := topo.Matches[0]
	final := topo.Matches[2]

	testCases := []struct {
		name    string
		matchID uuid.UUID
		winner  uuid.UUID
		check   func(t *testing.T, err error)
	}{
		{
			name:    "unknown match",
			matchID: uuid.New(),
			winner:  participants[0].ID,
			check: func(t *testing.T, err error) {
				var nerr *NotFoundError
				require.True(t, errors.As(err, &nerr))
				assert.Equal(t, "match", nerr.Resource)
			},
		},
		{
			name:    "winner not in match",
			matchID: r1.ID,
			winner:  participants[3].ID,
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "winner_id", verr.Field)
			},
		},
		{
			name:    "match waiting on participants",
			matchID: final.ID,
			winner:  participants[0].ID,
			check: func(t *testing.T, err error) {
				var serr *StateError
				require.True(t, errors.As(err, &serr))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := topo.ReportWinner(tc.matchID, tc.winner, testTime)
			require.Error(t, err)
			tc.check(t, err)
		})
	}

	assert.Equal(t, MatchScheduled, r1.Status)
	assert.Nil(t, r1.WinnerID)
}

func TestKnockoutPlaysToCompletion(t *testing.T) {
	for n := MinParticipants; n <= MaxParticipants; n++ {
		topo := buildFor(t, Knockout, makeParticipants(n))
		played := playAll(t, topo)

		assert.Len(t, played, n-1, "n=%d", n)
		assert.True(t, topo.IsComplete(), "n=%d", n)
		for _, r := range topo.Rounds {
			assert.True(t, r.IsCompleted, "n=%d round %d", n, r.RoundNumber)
		}

		// Every winner sits in the slot it feeds.
		for _, m := range topo.Matches {
			if m.WinnerNextMatchID == nil {
				continue
			}
			next, _ := topo.Match(*m.WinnerNextMatchID)
			entry := next.Entry(*m.WinnerNextSlot)
			require.NotNil(t, entry)
			assert.Equal(t, *m.WinnerID, *entry)
		}
	}
}

func TestDoubleEliminationLoserDropsIntoLosersBracket(t *testing.T) {
	participants := makeParticipants(8)
	topo := buildFor(t, DoubleElimination, participants)

	first := topo.Matches[0]
	loser := *first.Entry2ID
	_, err := topo.ReportWinner(first.ID, *first.Entry1ID, testTime)
	require.NoError(t, err)

	next, ok := topo.Match(*first.LoserNextMatchID)
	require.True(t, ok)
	assert.Equal(t, LosersSide, next.BracketSide)
	assert.Equal(t, 1, next.RoundNumber)
	assert.True(t, next.HasParticipant(loser))
}

func TestDoubleEliminationEliminatesAfterTwoLosses(t *testing.T) {
	for n := MinParticipants; n <= 32; n++ {
		participants := makeParticipants(n)
		topo := buildFor(t, DoubleElimination, participants)
		played := playAll(t, topo)

		assert.Len(t, played, 2*n-2, "n=%d", n)
		assert.True(t, topo.IsComplete(), "n=%d", n)

		losses := make(map[uuid.UUID]int)
		for _, m := range played {
			for _, id := range []uuid.UUID{*m.Entry1ID, *m.Entry2ID} {
				assert.Less(t, losses[id], 2, "n=%d: eliminated participant plays match %d", n, m.Number)
			}
			losses[*m.Opponent(*m.WinnerID)]++
		}

		eliminated := 0
		for _, count := range losses {
			if count >= 2 {
				eliminated++
			}
		}
		assert.GreaterOrEqual(t, eliminated, n-2, "n=%d", n)
	}
}

func TestRoundRobinResultsDoNotPropagate(t *testing.T) {
	topo := buildFor(t, RoundRobin, makeParticipants(4))
	first := topo.Matches[0]

	_, err := topo.ReportWinner(first.ID, *first.Entry2ID, testTime)
	require.NoError(t, err)

	matches, _ := topo.Changes()
	require.Len(t, matches, 1)
	assert.Equal(t, first.ID, matches[0].ID)

	playAll(t, topo)
	assert.True(t, topo.IsComplete())
}

func TestReplayCarriesResultsOntoRebuiltBracket(t *testing.T) {
	participants := makeParticipants(6)
	previous := buildFor(t, Knockout, participants)

	r1 := previous.RoundMatches(previous.SideRounds(WinnersSide)[0].ID)
	_, err := previous.ReportWinner(r1[2].ID, participants[5].ID, testTime)
	require.NoError(t, err)

	rebuilt, err := Build(BuildSpec{
		TournamentID: previous.TournamentID,
		Format:       Knockout,
		Slots:        previous.RoundOneSlots(),
		Previous:     previous,
		Now:          testTime,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rebuilt.Replay(previous))

	m, ok := rebuilt.Match(r1[2].ID)
	require.True(t, ok)
	assert.Equal(t, MatchCompleted, m.Status)
	assert.Equal(t, participants[5].ID, *m.WinnerID)
	assert.Equal(t, testTime, *m.CompletedAt)

	final := rebuilt.Matches[len(rebuilt.Matches)-1]
	require.NotNil(t, final.Entry2ID)
	assert.Equal(t, participants[5].ID, *final.Entry2ID)
}

func TestReplaySkipsChangedPairings(t *testing.T) {
	participants := makeParticipants(6)
	previous := buildFor(t, Knockout, participants)

	first := previous.Matches[0]
	_, err := previous.ReportWinner(first.ID, participants[0].ID, testTime)
	require.NoError(t, err)

	slots := previous.RoundOneSlots()
	slots[1], slots[2] = slots[2], slots[1]
	rebuilt, err := Build(BuildSpec{
		TournamentID: previous.TournamentID,
		Format:       Knockout,
		Slots:        slots,
		Previous:     previous,
		Now:          testTime,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, rebuilt.Replay(previous))
	assert.Equal(t, MatchScheduled, rebuilt.Matches[0].Status)
}

func TestScheduleMatch(t *testing.T) {
	participants := makeParticipants(4)
	topo := buildFor(t, Knockout, participants)
	final := topo.Matches[2]

	at := testTime.Add(48 * time.Hour)
	m, err := topo.Schedule(final.ID, at)
	require.NoError(t, err)
	assert.Equal(t, at, *m.ScheduledAt)
	assert.Equal(t, MatchPending, m.Status)

	matches, _ := topo.Changes()
	require.Len(t, matches, 1)

	first := topo.Matches[0]
	_, err = topo.ReportWinner(first.ID, participants[0].ID, testTime)
	require.NoError(t, err)
	_, err = topo.Schedule(first.ID, at)
	var serr *StateError
	assert.True(t, errors.As(err, &serr))

	_, err = topo.Schedule(uuid.New(), at)
	var nerr *NotFoundError
	assert.True(t, errors.As(err, &nerr))
}
