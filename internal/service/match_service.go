package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	engine
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore) *MatchService {
	return &MatchService{engine{db: db, store: store}}
}

type ReportResult struct {
	Match      *bracket.Match      `json:"match"`
	Updated    []bracket.Match     `json:"updated_matches"`
	Tournament *bracket.Tournament `json:"tournament"`
}

func (s *MatchService) ReportWinner(ctx context.Context, tournamentID string, matchID, winnerID uuid.UUID) (*ReportResult, error) {
	unlock := locks.lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.loadTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == bracket.TournamentCompleted {
		return nil, bracket.State("tournament %s is already completed", tournamentID)
	}

	topo, err := s.loadTopologyTx(ctx, tx, tournament)
	if err != nil {
		return nil, err
	}
	match, err := topo.ReportWinner(matchID, winnerID, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.saveChanges(ctx, tx, tournament, topo)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Info("Winner reported", "tournament_id", tournamentID, "match", match.Number,
		"winner_id", winnerID, "updated", len(updated))
	return &ReportResult{Match: match, Updated: updated, Tournament: tournament}, nil
}

func (s *MatchService) ScheduleMatch(ctx context.Context, tournamentID string, matchID uuid.UUID, at time.Time) (*bracket.Match, error) {
	unlock := locks.lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.loadTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	topo, err := s.loadTopologyTx(ctx, tx, tournament)
	if err != nil {
		return nil, err
	}
	match, err := topo.Schedule(matchID, at.UTC())
	if err != nil {
		return nil, err
	}
	if _, err := s.saveChanges(ctx, tx, tournament, topo); err != nil {
		return nil, err
	}
	return match, tx.Commit()
}
