package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchdayhq/squad-engine/external/feedapi"
	"github.com/matchdayhq/squad-engine/external/jobqueue"
	"github.com/matchdayhq/squad-engine/internal/config"
	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	"github.com/matchdayhq/squad-engine/internal/infrastructure/account/statictoken"
	"github.com/matchdayhq/squad-engine/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/squad-engine/internal/infrastructure/repository/postgres"
	"github.com/matchdayhq/squad-engine/internal/interfaces/httpapi"
	"github.com/matchdayhq/squad-engine/internal/platform/cache"
	idgen "github.com/matchdayhq/squad-engine/internal/platform/id"
	"github.com/matchdayhq/squad-engine/internal/platform/logging"
	"github.com/matchdayhq/squad-engine/internal/platform/resilience"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

const swapSelectionTTL = 15 * time.Minute

// NewHTTPServer wires repositories, services, and the HTTP router into a
// ready-to-run server. The returned cleanup releases the database pool and
// the sync worker pool; call it after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		playerRepo player.Repository
		roundRepo  round.Repository
		squadRepo  squad.Repository
		closers    []func()
	)

	if strings.TrimSpace(cfg.DBURL) != "" {
		db, err := connectDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("close database pool", "error", err)
			}
		})
		playerRepo = postgres.NewPlayerRepository(db)
		roundRepo = postgres.NewRoundRepository(db)
		squadRepo = postgres.NewSquadRepository(db)
		logger.Info("using postgres repositories", "db", dbNameFromURL(cfg.DBURL))
	} else {
		playerRepo = memory.NewPlayerRepository(memory.SeedPlayers())
		roundRepo = memory.NewRoundRepository(memory.SeedRounds())
		squadRepo = memory.NewSquadRepository()
		logger.Info("using in-memory repositories with seed catalog")
	}

	var listCache *cache.Store
	if cfg.CacheEnabled {
		listCache = cache.NewStore(cfg.CacheTTL)
	}

	rules := squad.DefaultRules()
	squadSvc := usecase.NewSquadService(playerRepo, squadRepo, rules, idgen.NewRandomGenerator(), logger)
	transferSvc := usecase.NewTransferService(playerRepo, roundRepo, squadRepo, rules, logger)
	playerSvc := usecase.NewPlayerService(playerRepo, listCache)
	roundSvc := usecase.NewRoundService(roundRepo)
	swapSvc := usecase.NewSwapSelectionService(squadSvc, cache.NewStore(swapSelectionTTL))

	var syncSvc *usecase.CatalogSyncService
	if cfg.FeedEnabled {
		feedClient := feedapi.NewClient(feedapi.ClientConfig{
			BaseURL:    cfg.FeedBaseURL,
			Token:      cfg.FeedToken,
			Timeout:    cfg.FeedTimeout,
			MaxRetries: cfg.FeedMaxRetries,
			Logger:     logging.Default(),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedCircuitEnabled,
				FailureThreshold: cfg.FeedCircuitFailureCount,
				OpenTimeout:      cfg.FeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
			},
		})

		svc, err := usecase.NewCatalogSyncService(feedClient, playerRepo, roundRepo, cfg.SyncWorkers, logger)
		if err != nil {
			runClosers(closers)
			return nil, nil, fmt.Errorf("build catalog sync service: %w", err)
		}
		svc.SetInvalidator(playerSvc)
		closers = append(closers, svc.Close)
		syncSvc = svc
	}

	if cfg.EventQueueEnabled {
		publisher, err := jobqueue.NewPublisher(jobqueue.PublisherConfig{
			Endpoint: cfg.EventQueueEndpoint,
			Token:    cfg.EventQueueToken,
			Timeout:  cfg.EventQueueTimeout,
		}, logger)
		if err != nil {
			runClosers(closers)
			return nil, nil, fmt.Errorf("build penalty event publisher: %w", err)
		}
		transferSvc.SetPenaltyPublisher(publisher)
	}

	verifier, err := statictoken.NewVerifier(cfg.AuthTokenSecret)
	if err != nil {
		runClosers(closers)
		return nil, nil, fmt.Errorf("build token verifier: %w", err)
	}

	handler := httpapi.NewHandler(squadSvc, transferSvc, playerSvc, roundSvc, swapSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalSyncToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		runClosers(closers)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() { runClosers(closers) }
	return server, cleanup, nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// runClosers releases resources in reverse acquisition order.
func runClosers(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
