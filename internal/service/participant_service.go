package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ParticipantService struct {
	engine
}

func NewParticipantService(db *sqlx.DB, store *store.TournamentStore) *ParticipantService {
	return &ParticipantService{engine{db: db, store: store}}
}

type RebalanceResult struct {
	Tournament  *bracket.Tournament  `json:"tournament"`
	Participant *bracket.Participant `json:"participant"`
	Layout      *bracket.Layout      `json:"layout"`

	Reseeded bool `json:"reseeded"`
	Replayed int  `json:"replayed_results"`
}

func (s *ParticipantService) AddParticipant(ctx context.Context, tournamentID string, in ParticipantInput) (*RebalanceResult, error) {
	unlock := locks.lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, participants, err := s.loadRebalanceable(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := bracket.CheckParticipantCount(len(participants) + 1); err != nil {
		return nil, err
	}

	seed := 0
	for _, p := range participants {
		seed = max(seed, p.Seed)
	}
	kind := tournament.GameType.ParticipantKind()
	participant := bracket.Participant{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		Kind:         kind,
		Name:         participantName(kind, in.Name, len(participants)+1),
		Seed:         seed + 1,
		Rank:         in.Rank,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateParticipants(ctx, tx, []bracket.Participant{participant}); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	participants = append(participants, participant)

	previous, err := s.loadTopologyTx(ctx, tx, tournament)
	if err != nil {
		return nil, err
	}

	slots := previous.RoundOneSlots()
	reseed := true
	if tournament.Format != bracket.RoundRobin {
		if i := slices.Index(slots, (*uuid.UUID)(nil)); i >= 0 {
			slots[i] = &participant.ID
			reseed = false
		}
	}

	result, err := s.rebuild(ctx, tx, tournament, participants, previous, slots, reseed)
	if err != nil {
		return nil, err
	}
	result.Participant = &participant

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	slog.Info("Participant added", "tournament_id", tournamentID, "participant_id", participant.ID,
		"reseeded", result.Reseeded, "replayed", result.Replayed)
	return result, nil
}

func (s *ParticipantService) RemoveParticipant(ctx context.Context, tournamentID string, participantID uuid.UUID) (*RebalanceResult, error) {
	unlock := locks.lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, participants, err := s.loadRebalanceable(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(participants, func(p bracket.Participant) bool { return p.ID == participantID })
	if idx < 0 {
		return nil, bracket.NotFound("participant", participantID.String())
	}
	removed := participants[idx]
	if err := bracket.CheckParticipantCount(len(participants) - 1); err != nil {
		return nil, err
	}

	previous, err := s.loadTopologyTx(ctx, tx, tournament)
	if err != nil {
		return nil, err
	}

	slots := previous.RoundOneSlots()
	reseed := true
	if tournament.Format != bracket.RoundRobin && !previous.HasRecordedResult(participantID) && !slices.Contains(slots, nil) {
		if i := slices.IndexFunc(slots, func(id *uuid.UUID) bool { return id != nil && *id == participantID }); i >= 0 {
			slots[i] = nil
			reseed = false
		}
	}

	// The old bracket references the participant, so it goes first.
	if err := s.store.DeleteBracketTx(ctx, tx, tournamentID); err != nil {
		return nil, fmt.Errorf("failed to delete bracket: %w", err)
	}
	if err := s.store.DeleteParticipantTx(ctx, tx, tournamentID, participantID.String()); err != nil {
		return nil, err
	}

	remaining := slices.Delete(slices.Clone(participants), idx, idx+1)
	var renumbered []bracket.Participant
	for i := range remaining {
		if remaining[i].Seed > removed.Seed {
			remaining[i].Seed--
			renumbered = append(renumbered, remaining[i])
		}
	}
	if err := s.store.UpdateParticipantSeedsTx(ctx, tx, renumbered); err != nil {
		return nil, fmt.Errorf("failed to renumber seeds: %w", err)
	}

	result, err := s.rebuild(ctx, tx, tournament, remaining, previous, slots, reseed)
	if err != nil {
		return nil, err
	}
	result.Participant = &removed

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	slog.Info("Participant removed", "tournament_id", tournamentID, "participant_id", participantID,
		"reseeded", result.Reseeded, "replayed", result.Replayed)
	return result, nil
}

func (s *ParticipantService) loadRebalanceable(ctx context.Context, tx *sqlx.Tx, tournamentID string) (*bracket.Tournament, []bracket.Participant, error) {
	tournament, err := s.loadTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if !tournament.IsRebalanceable() {
		return nil, nil, bracket.State("tournament %s is %s, participants can only change while PENDING", tournamentID, tournament.Status)
	}
	participants, err := s.store.GetParticipantsTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return tournament, participants, nil
}

// Unless reseed is set the given round one slots are kept.
func (s *ParticipantService) rebuild(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament, participants []bracket.Participant, previous *bracket.Topology, slots []*uuid.UUID, reseed bool) (*RebalanceResult, error) {
	if reseed {
		var err error
		if slots, err = s.seedSlots(tournament, participants); err != nil {
			return nil, err
		}
	}

	topo, err := bracket.Build(bracket.BuildSpec{
		TournamentID: tournament.ID,
		Format:       tournament.Format,
		Slots:        slots,
		Previous:     previous,
		Now:          s.now(),
	})
	if err != nil {
		return nil, err
	}
	replayed := topo.Replay(previous)

	// Removal has already cleared the bracket; this is then a no-op.
	if err := s.store.DeleteBracketTx(ctx, tx, tournament.ID); err != nil {
		return nil, fmt.Errorf("failed to delete bracket: %w", err)
	}
	layout, err := s.saveBracket(ctx, tx, topo, len(participants))
	if err != nil {
		return nil, err
	}

	tournament.ParticipantCount = len(participants)
	if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	if err := s.completeIfDone(ctx, tx, tournament, topo); err != nil {
		return nil, err
	}

	slog.Info("Bracket rebuilt", "tournament_id", tournament.ID, "participants", len(participants),
		"rounds", layout.RoundCount, "reseeded", reseed)
	return &RebalanceResult{Tournament: tournament, Layout: layout, Reseeded: reseed, Replayed: replayed}, nil
}
