package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/fantasy-rooms/external/statsfeed"
	"github.com/riskibarqy/fantasy-rooms/internal/config"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rooms/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rooms/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-rooms/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/fantasy-rooms/internal/platform/id"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rooms/internal/usecase"
)

// NewHTTPServer wires repositories, services, and the router. With no DB_URL
// the service runs entirely from seeded in-memory repositories, which is the
// dev-mode default.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	// A hole in the point table must fail boot, not settlement night.
	if err := scoring.VerifyRuleTable(); err != nil {
		return nil, fmt.Errorf("verify scoring rule table: %w", err)
	}

	var (
		matchRepo     match.Repository
		eventSource   match.EventSource
		rosterRepo    roster.Repository
		minutesSource playerstats.MinutesSource
	)

	if cfg.DBURL == "" {
		logger.Info("no DB_URL configured, using seeded in-memory repositories")
		memMatches := memory.NewMatchRepository(memory.SeedMatches(), memory.SeedEvents())
		matchRepo = memMatches
		eventSource = memMatches
		rosterRepo = memory.NewRosterRepository(memory.SeedRosters())
		minutesSource = memory.NewStatsSource(memory.SeedMinutes())
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		pgMatches := postgres.NewMatchRepository(db)
		matchRepo = pgMatches
		eventSource = pgMatches
		rosterRepo = postgres.NewRosterRepository(db)
		minutesSource = postgres.NewPlayerStatsRepository(db)
	}

	if cfg.StatsFeedEnabled {
		feed := statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    cfg.StatsFeedBaseURL,
			Token:      cfg.StatsFeedToken,
			Timeout:    cfg.StatsFeedTimeout,
			MaxRetries: cfg.StatsFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailureCount,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenMaxReq,
			},
		})
		minutesSource = feed
		eventSource = feed
	}

	settlementSvc := usecase.NewSettlementService(
		matchRepo,
		eventSource,
		rosterRepo,
		minutesSource,
		idgen.NewRandomGenerator(),
		logger,
	)
	settlementSvc.SetCaptainMultiplier(cfg.CaptainMultiplier)
	settlementSvc.SetMaxWorkers(cfg.SettlementWorkers)
	settlementSvc.SetStatsCacheTTL(cfg.StatsCacheTTL)

	constraints := roster.DefaultConstraints()
	constraints.BudgetCap = cfg.BudgetCap
	rosterSvc := usecase.NewRosterService(constraints, logger)

	handler := httpapi.NewHandler(settlementSvc, rosterSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
