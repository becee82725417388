package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/config"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/season"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/account"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/notify"
	cacherepo "github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/repository/cache"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/repository/memory"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/repository/postgres"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/interfaces/httpapi"
	basecache "github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/cache"
	idgen "github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/id"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/resilience"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type repositories struct {
	league      league.Repository
	castaway    castaway.Repository
	roster      roster.Repository
	episode     episode.Repository
	elimination elimination.Repository
	close       func() error
}

// NewHTTPServer assembles the full service: repositories, use cases, auth,
// notifications and the HTTP router. The returned cleanup closes resources
// that outlive the server itself, call it after Shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	rules := roster.Rules{
		Size:               cfg.RosterSize,
		NetChangeCap:       cfg.NetChangeCap,
		RestrictionEnabled: cfg.AddDropRestrictionEnabled,
	}
	clock := season.NewClock(cfg.SeasonPremiereDate, cfg.RosterLockWeekday, cfg.RosterLockHour, cfg.SeasonTimezone)
	catalog := event.DefaultCatalog()
	scopeMode := elimination.ScopeMode(cfg.EliminationScope)

	seasonService := usecase.NewSeasonService(season.Season{
		Number:       cfg.SeasonNumber,
		Name:         cfg.SeasonName,
		PremiereDate: cfg.SeasonPremiereDate,
	}, clock, rules)
	leagueService := usecase.NewLeagueService(repos.league, idgen.NewRandomGenerator(), cfg.SeasonNumber, logger)
	rosterService := usecase.NewRosterService(
		repos.roster, repos.league, repos.castaway, repos.elimination,
		rules, clock, scopeMode, cfg.SeasonNumber, logger,
	)
	recomputeService := usecase.NewRecomputeService(
		repos.league, repos.roster, repos.episode, catalog, cfg.RecomputeWorkers, logger,
	)
	scoringService := usecase.NewScoringService(repos.episode, repos.castaway, catalog, logger)
	scoringService.SetRecomputer(recomputeService)
	eliminationService := usecase.NewEliminationService(
		repos.elimination, repos.castaway, repos.league, repos.roster,
		scopeMode, cfg.SeasonNumber, logger,
	)
	eliminationService.SetRecomputer(recomputeService)

	if cfg.CacheEnabled {
		standingsCache := basecache.NewStore(cfg.CacheTTL)
		leagueService.SetCache(standingsCache)
		recomputeService.SetCache(standingsCache)
	}

	if cfg.WebhookEnabled {
		notifier := notify.NewWebhookPublisher(notify.WebhookConfig{
			Endpoint:       cfg.WebhookEndpoint,
			Token:          cfg.WebhookToken,
			Timeout:        cfg.WebhookTimeout,
			Retries:        cfg.WebhookRetries,
			CircuitEnabled: cfg.WebhookCircuitEnabled,
			Circuit: resilience.CircuitBreakerConfig{
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
			},
		}, logger)
		scoringService.SetNotifier(notifier)
		eliminationService.SetNotifier(notifier)
	}

	verifier := account.NewClient(account.Config{
		BaseURL:        cfg.AuthBaseURL,
		IntrospectPath: cfg.AuthIntrospectPath,
		Timeout:        cfg.AuthTimeout,
		CircuitEnabled: cfg.AuthCircuitEnabled,
		Circuit: resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMax,
		},
	}, logger)

	handler := httpapi.NewHandler(
		seasonService, leagueService, rosterService,
		scoringService, eliminationService, recomputeService,
		cfg.SeasonNumber, logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalAdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = repos.close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos.close, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("repositories ready", "backend", "memory")
		return memoryRepositories(cfg), nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return repositories{}, err
	}

	castawayRepo := postgres.NewCastawayRepository(db)
	if err := castawayRepo.SeedCast(context.Background(), memory.SeedCastaways()); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("seed season cast: %w", err)
	}

	repos := repositories{
		league:      postgres.NewLeagueRepository(db),
		castaway:    castawayRepo,
		roster:      postgres.NewRosterRepository(db),
		episode:     postgres.NewEpisodeRepository(db),
		elimination: postgres.NewEliminationRepository(db),
		close:       db.Close,
	}
	if cfg.CacheEnabled {
		repos = withReadCaches(repos, cfg)
	}

	logger.Info("repositories ready", "backend", "postgres", "cache_enabled", cfg.CacheEnabled)
	return repos, nil
}

func memoryRepositories(cfg config.Config) repositories {
	repos := repositories{
		league:      memory.NewLeagueRepository(memory.SeedLeagues()...),
		castaway:    memory.NewCastawayRepository(memory.SeedCastaways()...),
		roster:      memory.NewRosterRepository(),
		episode:     memory.NewEpisodeRepository(),
		elimination: memory.NewEliminationRepository(),
		close:       func() error { return nil },
	}
	if cfg.CacheEnabled {
		repos = withReadCaches(repos, cfg)
	}
	return repos
}

func withReadCaches(repos repositories, cfg config.Config) repositories {
	store := basecache.NewStore(cfg.CacheTTL)
	repos.league = cacherepo.NewLeagueRepository(repos.league, store)
	repos.castaway = cacherepo.NewCastawayRepository(repos.castaway, store)
	repos.episode = cacherepo.NewEpisodeRepository(repos.episode, store)
	return repos
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}
