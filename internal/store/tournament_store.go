package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/jmoiron/sqlx"
)

type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, format, game_type, fixing_policy, participant_count, status, is_deleted, delete_remark, created_at)
        VALUES (:id, :name, :format, :game_type, :fixing_policy, :participant_count, :status, :is_deleted, :delete_remark, :created_at)`, tournament)
	return err
}

// Deleted tournaments included.
func (s *TournamentStore) TournamentExists(ctx context.Context, tx *sqlx.Tx, id string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = ?)", id)
	return exists, err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	return getTournament(ctx, s.db, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.Tournament, error) {
	return getTournament(ctx, tx, id)
}

func getTournament(ctx context.Context, q querier, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := q.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bracket.NotFound("tournament", id)
	}
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) UpdateTournamentTx(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET name = :name, fixing_policy = :fixing_policy, participant_count = :participant_count,
        status = :status, is_deleted = :is_deleted, delete_remark = :delete_remark WHERE id = :id`, tournament)
	return err
}

func (s *TournamentStore) CreateParticipants(ctx context.Context, tx *sqlx.Tx, participants []bracket.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO participants (id, tournament_id, kind, name, seed, rank, created_at)
            VALUES (:id, :tournament_id, :kind, :name, :seed, :rank, :created_at)`, participants)
	return err
}

func (s *TournamentStore) GetParticipants(ctx context.Context, tournamentID string) ([]bracket.Participant, error) {
	return getParticipants(ctx, s.db, tournamentID)
}

func (s *TournamentStore) GetParticipantsTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.Participant, error) {
	return getParticipants(ctx, tx, tournamentID)
}

func getParticipants(ctx context.Context, q querier, tournamentID string) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := q.SelectContext(ctx, &participants, "SELECT * FROM participants WHERE tournament_id = ? ORDER BY seed ASC, created_at ASC", tournamentID)
	return participants, err
}

func (s *TournamentStore) DeleteParticipantTx(ctx context.Context, tx *sqlx.Tx, tournamentID, participantID string) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE tournament_id = ? AND id = ?", tournamentID, participantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return bracket.NotFound("participant", participantID)
	}
	return nil
}

func (s *TournamentStore) UpdateParticipantSeedsTx(ctx context.Context, tx *sqlx.Tx, participants []bracket.Participant) error {
	for i := range participants {
		if _, err := tx.NamedExecContext(ctx, "UPDATE participants SET seed = :seed WHERE id = :id", &participants[i]); err != nil {
			return err
		}
	}
	return nil
}
