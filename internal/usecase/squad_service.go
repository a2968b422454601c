package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	idgen "github.com/matchdayhq/squad-engine/internal/platform/id"
)

// CreateSquadInput is the incoming payload for draft completion.
type CreateSquadInput struct {
	UserID    string
	LeagueID  string
	TeamName  string
	PlayerIDs []string
}

type SquadService struct {
	playerRepo player.Repository
	squadRepo  squad.Repository
	rules      squad.Rules
	assigner   *squad.Assigner
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewSquadService(
	playerRepo player.Repository,
	squadRepo squad.Repository,
	rules squad.Rules,
	idGen idgen.Generator,
	logger *slog.Logger,
) *SquadService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SquadService{
		playerRepo: playerRepo,
		squadRepo:  squadRepo,
		rules:      rules,
		assigner:   squad.NewAssigner(),
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateSquad turns a completed 15-player draft into a persisted squad with
// the default lineup already assigned.
func (s *SquadService) CreateSquad(ctx context.Context, input CreateSquadInput) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.CreateSquad")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.TeamName = strings.TrimSpace(input.TeamName)

	if input.UserID == "" {
		return squad.Squad{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return squad.Squad{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.TeamName == "" {
		return squad.Squad{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if len(input.PlayerIDs) != s.rules.SquadSize {
		return squad.Squad{}, fmt.Errorf("%w: draft must contain exactly %d players", ErrInvalidInput, s.rules.SquadSize)
	}

	playerIDs, err := cleanPlayerIDs(input.PlayerIDs)
	if err != nil {
		return squad.Squad{}, err
	}

	_, exists, err := s.squadRepo.GetByUserAndLeague(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get existing squad: %w", err)
	}
	if exists {
		return squad.Squad{}, fmt.Errorf("%w: squad already exists for league=%s", ErrConflict, input.LeagueID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, input.LeagueID, playerIDs)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get players by ids: %w", err)
	}

	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	slots := make([]squad.Slot, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		p, ok := playerByID[playerID]
		if !ok {
			return squad.Squad{}, fmt.Errorf("%w: player id %s not found in league=%s", ErrInvalidInput, playerID, input.LeagueID)
		}
		if !p.IsActive {
			return squad.Squad{}, fmt.Errorf("%w: player %s is not available for selection", ErrInvalidInput, playerID)
		}
		slots = append(slots, squad.Slot{
			PlayerID: p.ID,
			TeamID:   p.TeamID,
			Position: p.Position,
			Price:    p.Price,
		})
	}

	draft := squad.Squad{
		UserID:                 input.UserID,
		LeagueID:               input.LeagueID,
		TeamName:               input.TeamName,
		BudgetCap:              s.rules.Budget,
		FreeTransfersRemaining: 1,
		Slots:                  slots,
	}

	if report := squad.ValidateComplete(draft, s.rules); !report.OK() {
		return squad.Squad{}, fmt.Errorf("%w: %w", ErrInvalidInput, report.Err())
	}

	assigned, err := s.assigner.Assign(draft, squad.DefaultFormation)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("assign default lineup: %w", err)
	}

	squadID, err := s.idGen.NewID()
	if err != nil {
		return squad.Squad{}, fmt.Errorf("generate squad id: %w", err)
	}

	now := s.now().UTC()
	assigned.ID = squadID
	assigned.Version = 1
	assigned.CreatedAt = now
	assigned.UpdatedAt = now

	if err := assigned.ValidateBasic(); err != nil {
		return squad.Squad{}, fmt.Errorf("validate squad: %w", err)
	}

	if err := s.squadRepo.Upsert(ctx, assigned); err != nil {
		return squad.Squad{}, fmt.Errorf("persist squad: %w", err)
	}

	s.logger.InfoContext(ctx, "squad created",
		"user_id", input.UserID,
		"league_id", input.LeagueID,
		"squad_id", assigned.ID,
		"spend", assigned.Spend(),
	)

	return assigned, nil
}

func (s *SquadService) GetMySquad(ctx context.Context, userID, leagueID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetMySquad")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return squad.Squad{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	item, exists, err := s.squadRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return squad.Squad{}, fmt.Errorf("%w: squad not found", ErrNotFound)
	}

	return item, nil
}

func (s *SquadService) UpdateTeamName(ctx context.Context, userID, leagueID, teamName string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.UpdateTeamName")
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return squad.Squad{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	current, err := s.GetMySquad(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, err
	}

	updated := current.Clone()
	updated.TeamName = teamName

	return s.commit(ctx, updated)
}

func (s *SquadService) ChangeFormation(ctx context.Context, userID, leagueID, rawFormation string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.ChangeFormation")
	defer span.End()

	formation, err := squad.ParseFormation(rawFormation)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	current, err := s.GetMySquad(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, err
	}

	assigned, err := s.assigner.Assign(current, formation)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("assign lineup for %s: %w", formation, err)
	}

	return s.commit(ctx, assigned)
}

func (s *SquadService) SetCaptain(ctx context.Context, userID, leagueID, playerID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.SetCaptain")
	defer span.End()

	return s.applyRole(ctx, userID, leagueID, playerID, squad.SetCaptain)
}

func (s *SquadService) SetViceCaptain(ctx context.Context, userID, leagueID, playerID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.SetViceCaptain")
	defer span.End()

	return s.applyRole(ctx, userID, leagueID, playerID, squad.SetViceCaptain)
}

func (s *SquadService) applyRole(
	ctx context.Context,
	userID, leagueID, playerID string,
	apply func(squad.Squad, string) (squad.Squad, error),
) (squad.Squad, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return squad.Squad{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	current, err := s.GetMySquad(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, err
	}

	updated, err := apply(current, playerID)
	if err != nil {
		return squad.Squad{}, err
	}

	return s.commit(ctx, updated)
}

func (s *SquadService) SwapStarterForBench(ctx context.Context, userID, leagueID, starterID, benchID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.SwapStarterForBench")
	defer span.End()

	starterID = strings.TrimSpace(starterID)
	benchID = strings.TrimSpace(benchID)
	if starterID == "" || benchID == "" {
		return squad.Squad{}, fmt.Errorf("%w: starter_id and bench_id are required", ErrInvalidInput)
	}
	if starterID == benchID {
		return squad.Squad{}, fmt.Errorf("%w: starter_id and bench_id must differ", ErrInvalidInput)
	}

	current, err := s.GetMySquad(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, err
	}

	swapped, err := squad.SwapStarterForBench(current, starterID, benchID)
	if err != nil {
		return squad.Squad{}, err
	}

	return s.commit(ctx, swapped)
}

// commit bumps the optimistic version and persists. A stale snapshot is
// surfaced as ErrConflict so the caller can refetch and retry.
func (s *SquadService) commit(ctx context.Context, item squad.Squad) (squad.Squad, error) {
	item.Version++
	item.UpdatedAt = s.now().UTC()

	if err := s.squadRepo.Upsert(ctx, item); err != nil {
		if errors.Is(err, squad.ErrVersionConflict) {
			return squad.Squad{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return squad.Squad{}, fmt.Errorf("persist squad: %w", err)
	}

	return item, nil
}

func cleanPlayerIDs(playerIDs []string) ([]string, error) {
	cleaned := make([]string, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}
