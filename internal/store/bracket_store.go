package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/jmoiron/sqlx"
)

func (s *TournamentStore) CreateRounds(ctx context.Context, tx *sqlx.Tx, rounds []bracket.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO rounds (id, tournament_id, bracket_side, round_number, name, is_completed)
		VALUES (:id, :tournament_id, :bracket_side, :round_number, :name, :is_completed)`, rounds)
	return err
}

// Rounds must already exist.
func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, round_id, bracket_side, round_number, match_order, match_number,
			entry_1_id, entry_2_id, source_1_match_id, source_1_loser, source_2_match_id, source_2_loser,
			winner_next_match_id, winner_next_slot, loser_next_match_id, loser_next_slot,
			winner_id, status, is_bye, scheduled_at, completed_at)
		VALUES (:id, :tournament_id, :round_id, :bracket_side, :round_number, :match_order, :match_number,
			:entry_1_id, :entry_2_id, :source_1_match_id, :source_1_loser, :source_2_match_id, :source_2_loser,
			:winner_next_match_id, :winner_next_slot, :loser_next_match_id, :loser_next_slot,
			:winner_id, :status, :is_bye, :scheduled_at, :completed_at)`, matches)
	return err
}

func (s *TournamentStore) GetRounds(ctx context.Context, tournamentID string) ([]bracket.Round, error) {
	return getRounds(ctx, s.db, tournamentID)
}

func (s *TournamentStore) GetRoundsTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.Round, error) {
	return getRounds(ctx, tx, tournamentID)
}

func getRounds(ctx context.Context, q querier, tournamentID string) ([]bracket.Round, error) {
	var rounds []bracket.Round
	err := q.SelectContext(ctx, &rounds, "SELECT * FROM rounds WHERE tournament_id = ? ORDER BY round_number ASC", tournamentID)
	return rounds, err
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID string) ([]bracket.Match, error) {
	return getMatches(ctx, s.db, tournamentID)
}

func (s *TournamentStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.Match, error) {
	return getMatches(ctx, tx, tournamentID)
}

func getMatches(ctx context.Context, q querier, tournamentID string) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := q.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY match_number ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatch(ctx context.Context, tournamentID, matchID string) (*bracket.Match, error) {
	var match bracket.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE tournament_id = ? AND id = ?", tournamentID, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bracket.NotFound("match", matchID)
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// Links never change after a build.
func (s *TournamentStore) UpdateMatchesTx(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	for i := range matches {
		_, err := tx.NamedExecContext(ctx, `UPDATE matches SET entry_1_id = :entry_1_id, entry_2_id = :entry_2_id,
			winner_id = :winner_id, status = :status, scheduled_at = :scheduled_at, completed_at = :completed_at
			WHERE id = :id`, &matches[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) UpdateRoundsTx(ctx context.Context, tx *sqlx.Tx, rounds []bracket.Round) error {
	for i := range rounds {
		if _, err := tx.NamedExecContext(ctx, "UPDATE rounds SET is_completed = :is_completed WHERE id = :id", &rounds[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) DeleteBracketTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) error {
	for _, query := range []string{
		"DELETE FROM layouts WHERE tournament_id = ?",
		"DELETE FROM matches WHERE tournament_id = ?",
		"DELETE FROM rounds WHERE tournament_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, query, tournamentID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) UpsertLayoutTx(ctx context.Context, tx *sqlx.Tx, layout *bracket.Layout) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO layouts (tournament_id, format, round_count, losers_round_count, final_round_id, participant_count)
		VALUES (:tournament_id, :format, :round_count, :losers_round_count, :final_round_id, :participant_count)
		ON CONFLICT(tournament_id) DO UPDATE SET format = excluded.format, round_count = excluded.round_count,
			losers_round_count = excluded.losers_round_count, final_round_id = excluded.final_round_id,
			participant_count = excluded.participant_count`, layout)
	return err
}

func (s *TournamentStore) GetLayout(ctx context.Context, tournamentID string) (*bracket.Layout, error) {
	return getLayout(ctx, s.db, tournamentID)
}

func (s *TournamentStore) GetLayoutTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) (*bracket.Layout, error) {
	return getLayout(ctx, tx, tournamentID)
}

func getLayout(ctx context.Context, q querier, tournamentID string) (*bracket.Layout, error) {
	var layout bracket.Layout
	err := q.GetContext(ctx, &layout, "SELECT * FROM layouts WHERE tournament_id = ?", tournamentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bracket.NotFound("layout", tournamentID)
	}
	if err != nil {
		return nil, err
	}
	return &layout, nil
}
