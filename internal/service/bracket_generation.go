package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/AdamBeresnev/bracket-engine/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type engine struct {
	db    *sqlx.DB
	store *store.TournamentStore

	// Now and Shuffle are replaced in tests.
	Now     func() time.Time
	Shuffle bracket.Shuffler
}

func (e *engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

// loadTournamentTx resolves a live tournament; soft deleted ones are not found.
func (e *engine) loadTournamentTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.Tournament, error) {
	tournament, err := e.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if tournament.IsDeleted {
		return nil, bracket.NotFound("tournament", id)
	}
	return tournament, nil
}

func (e *engine) loadTopologyTx(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) (*bracket.Topology, error) {
	rounds, err := e.store.GetRoundsTx(ctx, tx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	matches, err := e.store.GetMatchesTx(ctx, tx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	return bracket.NewTopology(tournament.ID, tournament.Format, rounds, matches), nil
}

// Manual tournaments store the manual position as the seed.
func (e *engine) seedSlots(tournament *bracket.Tournament, participants []bracket.Participant) ([]*uuid.UUID, error) {
	var manual []uuid.UUID
	if tournament.FixingPolicy == bracket.FixManual {
		ordered := make([]bracket.Participant, len(participants))
		copy(ordered, participants)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seed < ordered[j].Seed })
		for _, p := range ordered {
			manual = append(manual, p.ID)
		}
	}

	seeding, err := bracket.Seed(participants, tournament.FixingPolicy, manual, e.Shuffle)
	if err != nil {
		return nil, err
	}
	return slotIDs(seeding.Slots), nil
}

func slotIDs(slots []*bracket.Participant) []*uuid.UUID {
	ids := make([]*uuid.UUID, len(slots))
	for i, p := range slots {
		if p != nil {
			ids[i] = utils.Ptr(p.ID)
		}
	}
	return ids
}

func (e *engine) saveBracket(ctx context.Context, tx *sqlx.Tx, topo *bracket.Topology, participantCount int) (*bracket.Layout, error) {
	if err := e.store.CreateRounds(ctx, tx, topo.RoundValues()); err != nil {
		return nil, fmt.Errorf("failed to create rounds: %w", err)
	}
	if err := e.store.CreateMatches(ctx, tx, topo.MatchValues()); err != nil {
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}

	layout := topo.Layout(participantCount)
	if err := e.store.UpsertLayoutTx(ctx, tx, &layout); err != nil {
		return nil, fmt.Errorf("failed to save layout: %w", err)
	}
	return &layout, nil
}

func (e *engine) saveChanges(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament, topo *bracket.Topology) ([]bracket.Match, error) {
	matches, rounds := topo.Changes()
	if err := e.store.UpdateMatchesTx(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("failed to update matches: %w", err)
	}
	if err := e.store.UpdateRoundsTx(ctx, tx, rounds); err != nil {
		return nil, fmt.Errorf("failed to update rounds: %w", err)
	}
	if err := e.completeIfDone(ctx, tx, tournament, topo); err != nil {
		return nil, err
	}
	return matches, nil
}

func (e *engine) completeIfDone(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament, topo *bracket.Topology) error {
	if !topo.IsComplete() || tournament.Status == bracket.TournamentCompleted {
		return nil
	}
	status, err := bracket.Transition(tournament.Status, bracket.TournamentCompleted)
	if err != nil {
		return err
	}
	tournament.Status = status
	if err := e.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	slog.Info("Tournament completed", "tournament_id", tournament.ID)
	return nil
}
