package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/db"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFixtures(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	data := s.create(t, bracket.Knockout, 5)

	fixtures, err := s.fixtures.GetFixtures(ctx, data.Tournament.ID, "")
	require.NoError(t, err)
	assert.Equal(t, bracket.WinnersSide, fixtures.Bracket)
	require.Len(t, fixtures.Rounds, 3)

	for i, r := range fixtures.Rounds {
		assert.Equal(t, i+1, r.Number)
	}
	assert.Equal(t, "Team 1", fixtures.Rounds[0].Matches[0].Slots[0].Name)
	assert.Equal(t, bracket.ByeLabel, fixtures.Rounds[0].Matches[2].Slots[1].Name)
	assert.Equal(t, "Winner of Match 1", fixtures.Rounds[1].Matches[0].Slots[0].Name)
	assert.Equal(t, "Team 5", fixtures.Rounds[2].Matches[0].Slots[1].Name)
}

func TestGetFixturesErrors(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	data := s.create(t, bracket.Knockout, 4)

	var nerr *bracket.NotFoundError
	_, err := s.fixtures.GetFixtures(ctx, data.Tournament.ID, bracket.LosersSide)
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "bracket", nerr.Resource)

	_, err = s.fixtures.GetFixtures(ctx, "TMT000000000404", "")
	assert.True(t, errors.As(err, &nerr))

	var verr *bracket.ValidationError
	_, err = s.fixtures.GetFixtures(ctx, data.Tournament.ID, "consolation")
	assert.True(t, errors.As(err, &verr))
}

func TestGetBracketView(t *testing.T) {
	s := newTestServices(t)
	data := s.create(t, bracket.DoubleElimination, 6)

	view, err := s.fixtures.GetBracketView(context.Background(), data.Tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, data.Tournament.ID, view.Tournament.ID)
	require.Len(t, view.Brackets, 3)
	assert.Equal(t, bracket.WinnersSide, view.Brackets[0].Bracket)
	assert.Equal(t, bracket.LosersSide, view.Brackets[1].Bracket)
	assert.Equal(t, bracket.FinalsSide, view.Brackets[2].Bracket)
	assert.Equal(t, "Grand Final", view.Brackets[2].Rounds[0].Name)
}

func TestFixtureReadsDuringMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracket_engine.db")
	writer, err := db.InitDB(path)
	require.NoError(t, err)
	defer writer.Close()
	require.NoError(t, db.RunMigrations(writer.DB, "file://../../migrations"))

	reader, err := db.InitReadDB(path)
	require.NoError(t, err)
	defer reader.Close()

	ctx := context.Background()
	tournamentStore := store.NewTournamentStore(writer)
	data, err := NewTournamentService(writer, tournamentStore).CreateTournament(ctx, CreateTournamentInput{
		Name:             "Spring Cup",
		Format:           bracket.Knockout,
		GameType:         bracket.TeamGame,
		FixingPolicy:     bracket.FixSequential,
		ParticipantCount: 4,
	})
	require.NoError(t, err)

	tx, err := writer.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, "UPDATE tournaments SET name = 'Renamed' WHERE id = ?", data.Tournament.ID)
	require.NoError(t, err)

	readCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	view, err := NewFixtureService(reader, tournamentStore).GetBracketView(readCtx, data.Tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", view.Tournament.Name)
	require.Len(t, view.Brackets, 1)
	assert.Len(t, view.Brackets[0].Rounds, 2)
}
