package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[string]league.League
}

func NewLeagueRepository(seed ...league.League) *LeagueRepository {
	repo := &LeagueRepository{items: make(map[string]league.League, len(seed))}
	for _, item := range seed {
		repo.items[item.ID] = cloneLeague(item)
	}
	return repo
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(item), true, nil
}

func (r *LeagueRepository) GetByJoinCode(_ context.Context, joinCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.JoinCode == joinCode {
			return cloneLeague(item), true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) ListActive(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, item := range r.items {
		if item.Status != league.StatusActive {
			continue
		}
		out = append(out, cloneLeague(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneLeague(item)
	return nil
}

func (r *LeagueRepository) UpdateMemberPoints(_ context.Context, leagueID, userID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}

	for i := range item.Members {
		if item.Members[i].UserID == userID {
			item.Members[i].Points = points
			r.items[leagueID] = item
			return nil
		}
	}

	return fmt.Errorf("member %s not found in league %s", userID, leagueID)
}

func cloneLeague(l league.League) league.League {
	copied := l
	copied.Members = append([]league.Member(nil), l.Members...)
	return copied
}
