package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
)

// CatalogProvider is the upstream feed the catalog is refreshed from.
type CatalogProvider interface {
	FetchPlayers(ctx context.Context, leagueID string) ([]player.Player, error)
	FetchRounds(ctx context.Context, leagueID string) ([]round.Round, error)
}

// CatalogInvalidator drops derived read caches after a refresh.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context, leagueID string)
}

// SyncReport summarizes one catalog refresh pass.
type SyncReport struct {
	Leagues   int
	Players   int
	Rounds    int
	StartedAt time.Time
	Duration  time.Duration
}

// CatalogSyncService refreshes players and rounds from the upstream feed.
// Leagues fan out over a bounded worker pool; within a league the player
// and round fetches run concurrently.
type CatalogSyncService struct {
	provider    CatalogProvider
	playerRepo  player.Repository
	roundRepo   round.Repository
	invalidator CatalogInvalidator
	pool        *ants.Pool
	logger      *slog.Logger
	now         func() time.Time
}

func NewCatalogSyncService(
	provider CatalogProvider,
	playerRepo player.Repository,
	roundRepo round.Repository,
	workers int,
	logger *slog.Logger,
) (*CatalogSyncService, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create sync worker pool: %w", err)
	}

	return &CatalogSyncService{
		provider:   provider,
		playerRepo: playerRepo,
		roundRepo:  roundRepo,
		pool:       pool,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// SetInvalidator wires the optional read-cache invalidation hook.
func (s *CatalogSyncService) SetInvalidator(invalidator CatalogInvalidator) {
	s.invalidator = invalidator
}

// Close releases the worker pool.
func (s *CatalogSyncService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

func (s *CatalogSyncService) Sync(ctx context.Context, leagueIDs []string) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSyncService.Sync")
	defer span.End()

	cleaned := make([]string, 0, len(leagueIDs))
	for _, id := range leagueIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		cleaned = append(cleaned, id)
	}
	if len(cleaned) == 0 {
		return SyncReport{}, fmt.Errorf("%w: at least one league id is required", ErrInvalidInput)
	}

	startedAt := s.now().UTC()
	report := SyncReport{Leagues: len(cleaned), StartedAt: startedAt}

	var (
		mu       sync.Mutex
		syncErrs []error
		workers  sync.WaitGroup
	)

	for _, leagueID := range cleaned {
		leagueID := leagueID
		workers.Add(1)
		task := func() {
			defer workers.Done()

			players, rounds, err := s.syncLeague(ctx, leagueID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				syncErrs = append(syncErrs, fmt.Errorf("league %s: %w", leagueID, err))
				return
			}
			report.Players += players
			report.Rounds += rounds
		}
		if err := s.pool.Submit(task); err != nil {
			workers.Done()
			mu.Lock()
			syncErrs = append(syncErrs, fmt.Errorf("submit sync for league %s: %w", leagueID, err))
			mu.Unlock()
		}
	}
	workers.Wait()

	report.Duration = s.now().UTC().Sub(startedAt)

	if len(syncErrs) > 0 {
		return report, fmt.Errorf("%w: %w", ErrDependencyUnavailable, errors.Join(syncErrs...))
	}

	s.logger.InfoContext(ctx, "catalog sync finished",
		"leagues", report.Leagues,
		"players", report.Players,
		"rounds", report.Rounds,
		"duration", report.Duration.String(),
	)

	return report, nil
}

func (s *CatalogSyncService) syncLeague(ctx context.Context, leagueID string) (int, int, error) {
	var (
		mu         sync.Mutex
		firstErr   error
		playerSeen int
		roundSeen  int
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		players, err := s.provider.FetchPlayers(ctx, leagueID)
		if err != nil {
			record(fmt.Errorf("fetch players: %w", err))
			return
		}
		for i := range players {
			if err := players[i].Validate(); err != nil {
				record(fmt.Errorf("feed player %s: %w", players[i].ID, err))
				return
			}
		}
		if err := s.playerRepo.UpsertBatch(ctx, players); err != nil {
			record(fmt.Errorf("upsert players: %w", err))
			return
		}
		mu.Lock()
		playerSeen = len(players)
		mu.Unlock()
	})
	wg.Go(func() {
		rounds, err := s.provider.FetchRounds(ctx, leagueID)
		if err != nil {
			record(fmt.Errorf("fetch rounds: %w", err))
			return
		}
		for _, item := range rounds {
			if err := item.Validate(); err != nil {
				record(fmt.Errorf("feed round %s: %w", item.ID, err))
				return
			}
			if err := s.roundRepo.Upsert(ctx, item); err != nil {
				record(fmt.Errorf("upsert round %s: %w", item.ID, err))
				return
			}
		}
		mu.Lock()
		roundSeen = len(rounds)
		mu.Unlock()
	})
	wg.Wait()

	if firstErr != nil {
		return 0, 0, firstErr
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx, leagueID)
	}

	return playerSeen, roundSeen, nil
}
