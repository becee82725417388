package cache

import (
	"context"
	"strconv"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	basecache "github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/cache"
)

// CastawayRepository caches the read-only cast catalog in front of the
// persistent store. The cast never changes mid-season, so TTL expiry is the
// only invalidation it needs.
type CastawayRepository struct {
	next  castaway.Repository
	cache *basecache.Store
}

func NewCastawayRepository(next castaway.Repository, cache *basecache.Store) *CastawayRepository {
	return &CastawayRepository{next: next, cache: cache}
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	key := "castaway:id:" + castawayID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, castawayID)
		if err != nil {
			return nil, err
		}
		return cachedCastawayByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return castaway.Castaway{}, false, err
	}

	cached, _ := v.(cachedCastawayByID)
	return cached.value, cached.exists, nil
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, season int) ([]castaway.Castaway, error) {
	key := "castaway:season:" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]castaway.Castaway(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]castaway.Castaway)
	return append([]castaway.Castaway(nil), items...), nil
}

type cachedCastawayByID struct {
	value  castaway.Castaway
	exists bool
}

// LeagueRepository caches league reads and drops cached rows on every write.
// Point totals flow through UpdateMemberPoints during recompute, so writes
// invalidate rather than refresh to keep the decorator oblivious to shape.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := leagueByIDKey(leagueID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	key := "league:join-code:" + joinCode
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByJoinCode(ctx, joinCode)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListActive(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list:active", func(ctx context.Context) (any, error) {
		items, err := r.next.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID, item.JoinCode)
	return nil
}

func (r *LeagueRepository) UpdateMemberPoints(ctx context.Context, leagueID, userID string, points int) error {
	if err := r.next.UpdateMemberPoints(ctx, leagueID, userID, points); err != nil {
		return err
	}
	r.invalidate(ctx, leagueID, "")
	return nil
}

func (r *LeagueRepository) invalidate(ctx context.Context, leagueID, joinCode string) {
	r.cache.Delete(ctx, leagueByIDKey(leagueID))
	r.cache.Delete(ctx, "league:list:active")
	if joinCode != "" {
		r.cache.Delete(ctx, "league:join-code:"+joinCode)
	} else {
		r.cache.DeletePrefix(ctx, "league:join-code:")
	}
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

func leagueByIDKey(leagueID string) string {
	return "league:id:" + leagueID
}

// EpisodeRepository caches ledger reads. Admin re-ingestion replaces an
// episode document wholesale, so Upsert drops both the episode row and the
// season listing.
type EpisodeRepository struct {
	next  episode.Repository
	cache *basecache.Store
}

func NewEpisodeRepository(next episode.Repository, cache *basecache.Store) *EpisodeRepository {
	return &EpisodeRepository{next: next, cache: cache}
}

func (r *EpisodeRepository) Get(ctx context.Context, season, episodeNumber int) (episode.Ledger, bool, error) {
	key := episodeByNumberKey(season, episodeNumber)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, season, episodeNumber)
		if err != nil {
			return nil, err
		}
		return cachedEpisode{value: item, exists: exists}, nil
	})
	if err != nil {
		return episode.Ledger{}, false, err
	}

	cached, _ := v.(cachedEpisode)
	return cached.value, cached.exists, nil
}

func (r *EpisodeRepository) Upsert(ctx context.Context, ledger episode.Ledger) error {
	if err := r.next.Upsert(ctx, ledger); err != nil {
		return err
	}
	r.cache.Delete(ctx, episodeByNumberKey(ledger.Season, ledger.Episode))
	r.cache.Delete(ctx, episodeSeasonKey(ledger.Season))
	return nil
}

func (r *EpisodeRepository) ListBySeason(ctx context.Context, season int) ([]episode.Ledger, error) {
	v, err := r.cache.GetOrLoad(ctx, episodeSeasonKey(season), func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]episode.Ledger(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]episode.Ledger)
	return append([]episode.Ledger(nil), items...), nil
}

type cachedEpisode struct {
	value  episode.Ledger
	exists bool
}

func episodeByNumberKey(season, episodeNumber int) string {
	return "episode:season:" + strconv.Itoa(season) + ":episode:" + strconv.Itoa(episodeNumber)
}

func episodeSeasonKey(season int) string {
	return "episode:list:season:" + strconv.Itoa(season)
}
