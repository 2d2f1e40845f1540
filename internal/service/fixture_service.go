package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FixtureService never takes the tournament lock. Give it a read handle
// (db.InitReadDB) so its transactions do not wait on writers.
type FixtureService struct {
	engine
}

func NewFixtureService(db *sqlx.DB, store *store.TournamentStore) *FixtureService {
	return &FixtureService{engine{db: db, store: store}}
}

type BracketView struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Brackets   []*bracket.Fixtures `json:"brackets"`
}

// An empty side selects the winners bracket.
func (s *FixtureService) GetFixtures(ctx context.Context, tournamentID string, side bracket.BracketSide) (*bracket.Fixtures, error) {
	if side == "" {
		side = bracket.WinnersSide
	}
	if !side.Valid() {
		return nil, bracket.Validation("bracket", "unknown bracket %q", side)
	}

	var fixtures *bracket.Fixtures
	err := s.read(ctx, tournamentID, func(_ *bracket.Tournament, topo *bracket.Topology, names map[uuid.UUID]string) error {
		var err error
		fixtures, err = topo.Fixtures(side, names)
		return err
	})
	return fixtures, err
}

func (s *FixtureService) GetBracketView(ctx context.Context, tournamentID string) (*BracketView, error) {
	view := &BracketView{}
	err := s.read(ctx, tournamentID, func(t *bracket.Tournament, topo *bracket.Topology, names map[uuid.UUID]string) error {
		view.Tournament = t
		for _, side := range []bracket.BracketSide{bracket.WinnersSide, bracket.LosersSide, bracket.FinalsSide} {
			if len(topo.SideRounds(side)) == 0 {
				continue
			}
			fixtures, err := topo.Fixtures(side, names)
			if err != nil {
				return err
			}
			view.Brackets = append(view.Brackets, fixtures)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *FixtureService) read(ctx context.Context, tournamentID string, fn func(*bracket.Tournament, *bracket.Topology, map[uuid.UUID]string) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tournament, err := s.loadTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return err
	}
	participants, err := s.store.GetParticipantsTx(ctx, tx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	topo, err := s.loadTopologyTx(ctx, tx, tournament)
	if err != nil {
		return err
	}

	names := make(map[uuid.UUID]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return fn(tournament, topo, names)
}
