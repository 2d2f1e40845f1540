package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/AdamBeresnev/bracket-engine/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentService struct {
	engine
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{engine{db: db, store: store}}
}

type ParticipantInput struct {
	Name string `json:"name"`
	Rank *int   `json:"rank,omitempty"`
}

type CreateTournamentInput struct {
	Name         string               `json:"name"`
	Format       bracket.Format       `json:"format"`
	GameType     bracket.GameType     `json:"game_type"`
	FixingPolicy bracket.FixingPolicy `json:"fixing_policy"`

	ParticipantCount int                `json:"participant_count"`
	Participants     []ParticipantInput `json:"participants,omitempty"`

	// ManualOrder lists 1-based registration positions in pairing order.
	ManualOrder []int `json:"manual_order,omitempty"`
}

type TournamentData struct {
	Tournament   *bracket.Tournament   `json:"tournament"`
	Participants []bracket.Participant `json:"participants"`
	Layout       *bracket.Layout       `json:"layout"`
}

func (in CreateTournamentInput) validate() (int, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, bracket.Validation("name", "must not be empty")
	}
	if !in.Format.Valid() {
		return 0, bracket.Validation("format", "unsupported format %q", in.Format)
	}
	if !in.GameType.Valid() {
		return 0, bracket.Validation("game_type", "unsupported game type %q", in.GameType)
	}
	if !in.FixingPolicy.Valid() {
		return 0, bracket.Validation("fixing_policy", "unsupported policy %q", in.FixingPolicy)
	}

	count := in.ParticipantCount
	if len(in.Participants) > 0 {
		if count != 0 && count != len(in.Participants) {
			return 0, bracket.Validation("participant_count", "is %d but %d participants were given", count, len(in.Participants))
		}
		count = len(in.Participants)
	}
	if err := bracket.CheckParticipantCount(count); err != nil {
		return 0, err
	}

	if in.FixingPolicy == bracket.FixManual && len(in.ManualOrder) == 0 {
		return 0, bracket.Validation("manual_order", "is required for the manual policy")
	}
	return count, nil
}

func (s *TournamentService) CreateTournament(ctx context.Context, in CreateTournamentInput) (*TournamentData, error) {
	count, err := in.validate()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournamentID, err := s.newTournamentID(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tournament := bracket.Tournament{
		ID:               tournamentID,
		Name:             strings.TrimSpace(in.Name),
		Format:           in.Format,
		GameType:         in.GameType,
		FixingPolicy:     in.FixingPolicy,
		ParticipantCount: count,
		Status:           bracket.TournamentPending,
		CreatedAt:        now,
	}

	kind := in.GameType.ParticipantKind()
	participants := make([]bracket.Participant, count)
	for i := range participants {
		var input ParticipantInput
		if i < len(in.Participants) {
			input = in.Participants[i]
		}
		participants[i] = bracket.Participant{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Kind:         kind,
			Name:         participantName(kind, input.Name, i+1),
			Seed:         i + 1,
			Rank:         input.Rank,
			CreatedAt:    now,
		}
	}

	if in.FixingPolicy == bracket.FixManual {
		if err := applyManualSeeds(participants, in.ManualOrder); err != nil {
			return nil, err
		}
	}

	slots, err := s.seedSlots(&tournament, participants)
	if err != nil {
		return nil, err
	}
	topo, err := bracket.Build(bracket.BuildSpec{
		TournamentID: tournamentID,
		Format:       tournament.Format,
		Slots:        slots,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := s.store.CreateParticipants(ctx, tx, participants); err != nil {
		return nil, fmt.Errorf("failed to create participants: %w", err)
	}
	layout, err := s.saveBracket(ctx, tx, topo, count)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Info("Bracket built", "tournament_id", tournamentID, "format", tournament.Format,
		"participants", count, "rounds", layout.RoundCount, "losers_rounds", layout.LosersRoundCount)

	return &TournamentData{Tournament: &tournament, Participants: participants, Layout: layout}, nil
}

func applyManualSeeds(participants []bracket.Participant, order []int) error {
	if len(order) != len(participants) {
		return bracket.Validation("manual_order", "expected %d positions, got %d", len(participants), len(order))
	}
	seen := make(map[int]bool, len(order))
	for i, pos := range order {
		if pos < 1 || pos > len(participants) {
			return bracket.Validation("manual_order", "position %d is out of range", pos)
		}
		if seen[pos] {
			return bracket.Validation("manual_order", "position %d appears more than once", pos)
		}
		seen[pos] = true
		participants[pos-1].Seed = i + 1
	}
	return nil
}

func participantName(kind bracket.ParticipantKind, name string, n int) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if kind == bracket.TeamParticipant {
		return fmt.Sprintf("Team %d", n)
	}
	return fmt.Sprintf("Player %d", n)
}

func (s *TournamentService) newTournamentID(ctx context.Context, tx *sqlx.Tx) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		id := fmt.Sprintf("TMT%012d", rand.Int64N(1_000_000_000_000))
		exists, err := s.store.TournamentExists(ctx, tx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a tournament id")
}

func (s *TournamentService) GetTournament(ctx context.Context, id string) (*TournamentData, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.loadTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.store.GetParticipantsTx(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	layout, err := s.store.GetLayoutTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	return &TournamentData{Tournament: tournament, Participants: participants, Layout: layout}, tx.Commit()
}

func (s *TournamentService) StartTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	return s.update(ctx, id, false, func(t *bracket.Tournament) error {
		status, err := bracket.Transition(t.Status, bracket.TournamentActive)
		if err != nil {
			return err
		}
		t.Status = status
		return nil
	})
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id, remark string) (*bracket.Tournament, error) {
	return s.update(ctx, id, false, func(t *bracket.Tournament) error {
		t.IsDeleted = true
		t.DeleteRemark = utils.NonBlank(remark)
		return nil
	})
}

func (s *TournamentService) RestoreTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	return s.update(ctx, id, true, func(t *bracket.Tournament) error {
		if !t.IsDeleted {
			return bracket.State("tournament %s is not deleted", t.ID)
		}
		t.IsDeleted = false
		t.DeleteRemark = nil
		return nil
	})
}

func (s *TournamentService) update(ctx context.Context, id string, includeDeleted bool, fn func(*bracket.Tournament) error) (*bracket.Tournament, error) {
	unlock := locks.lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var tournament *bracket.Tournament
	if includeDeleted {
		tournament, err = s.store.GetTournamentTx(ctx, tx, id)
	} else {
		tournament, err = s.loadTournamentTx(ctx, tx, id)
	}
	if err != nil {
		return nil, err
	}

	if err := fn(tournament); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Info("Tournament updated", "tournament_id", id, "status", tournament.Status, "deleted", tournament.IsDeleted)
	return tournament, nil
}
