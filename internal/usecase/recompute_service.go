package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/cache"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
)

const rosterUpsertMaxRetries = 3

// RecomputeService re-derives every member's season total from the episode
// ledger. Totals are always a full recompute, never incremental deltas, so a
// sweep can be replayed after any ledger correction without double-counting.
type RecomputeService struct {
	leagueRepo  league.Repository
	rosterRepo  roster.Repository
	episodeRepo episode.Repository
	catalog     event.Catalog
	cache       *cache.Store
	logger      *logging.Logger
	workers     int
	now         func() time.Time
}

func NewRecomputeService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	episodeRepo episode.Repository,
	catalog event.Catalog,
	workers int,
	logger *logging.Logger,
) *RecomputeService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RecomputeService{
		leagueRepo:  leagueRepo,
		rosterRepo:  rosterRepo,
		episodeRepo: episodeRepo,
		catalog:     catalog,
		logger:      logger,
		workers:     workers,
		now:         time.Now,
	}
}

// SetCache enables standings invalidation after a sweep.
func (s *RecomputeService) SetCache(store *cache.Store) {
	s.cache = store
}

// RecomputeAll sweeps every active league on a bounded worker pool. A league
// that fails to recompute is logged and skipped; the sweep always visits the
// rest.
func (s *RecomputeService) RecomputeAll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.RecomputeAll")
	defer span.End()

	leagues, err := s.leagueRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active leagues: %w", err)
	}
	if len(leagues) == 0 {
		return nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("create recompute worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, item := range leagues {
		leagueID := item.ID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := s.RecomputeLeague(ctx, leagueID); err != nil {
				s.logger.WarnContext(ctx, "league recompute failed", "league_id", leagueID, "error", err)
			}
		}); err != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "submit league recompute failed", "league_id", leagueID, "error", err)
		}
	}
	wg.Wait()

	return nil
}

// RecomputeLeague re-derives roster entry points and member totals for one
// league from the full episode ledger.
func (s *RecomputeService) RecomputeLeague(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.RecomputeLeague")
	defer span.End()

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	ledgers, err := s.episodeRepo.ListBySeason(ctx, item.Season)
	if err != nil {
		return fmt.Errorf("list episode ledgers: %w", err)
	}
	scoresByEpisode := make(map[int]map[string]int, len(ledgers))
	for _, ledger := range ledgers {
		scoresByEpisode[ledger.Episode] = ledger.Scores(s.catalog)
	}

	timelines, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list rosters by league: %w", err)
	}

	for _, timeline := range timelines {
		total, err := s.recomputeTimeline(ctx, timeline, scoresByEpisode)
		if err != nil {
			s.logger.WarnContext(ctx, "member recompute failed",
				"league_id", leagueID, "user_id", timeline.UserID, "error", err)
			continue
		}
		if err := s.leagueRepo.UpdateMemberPoints(ctx, leagueID, timeline.UserID, total); err != nil {
			s.logger.WarnContext(ctx, "update member points failed",
				"league_id", leagueID, "user_id", timeline.UserID, "error", err)
		}
	}

	if s.cache != nil {
		s.cache.Delete(ctx, standingsCacheKey(leagueID))
	}

	return nil
}

// recomputeTimeline stores derived per-entry points back onto the timeline.
// Retries absorb commits racing with roster changes.
func (s *RecomputeService) recomputeTimeline(ctx context.Context, timeline roster.Timeline, scoresByEpisode map[int]map[string]int) (int, error) {
	for attempt := 0; ; attempt++ {
		total := 0
		for i := range timeline.Entries {
			points := roster.EntryPoints(timeline.Entries[i], scoresByEpisode)
			timeline.Entries[i].Points = points
			total += points
		}
		timeline.UpdatedAt = s.now().UTC()

		err := s.rosterRepo.Upsert(ctx, timeline)
		if err == nil {
			return total, nil
		}
		if !errors.Is(err, roster.ErrVersionConflict) || attempt >= rosterUpsertMaxRetries {
			return 0, fmt.Errorf("store recomputed roster: %w", err)
		}

		fresh, exists, getErr := s.rosterRepo.Get(ctx, timeline.LeagueID, timeline.UserID)
		if getErr != nil {
			return 0, fmt.Errorf("reload roster after version conflict: %w", getErr)
		}
		if !exists {
			return 0, fmt.Errorf("%w: roster league=%s user=%s", ErrNotFound, timeline.LeagueID, timeline.UserID)
		}
		timeline = fresh
	}
}

func standingsCacheKey(leagueID string) string {
	return "standings::" + leagueID
}
