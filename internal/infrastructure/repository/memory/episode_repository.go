package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
)

type EpisodeRepository struct {
	mu    sync.RWMutex
	items map[string]episode.Ledger
}

func NewEpisodeRepository() *EpisodeRepository {
	return &EpisodeRepository{items: make(map[string]episode.Ledger)}
}

func (r *EpisodeRepository) Get(_ context.Context, season, episodeNum int) (episode.Ledger, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger, ok := r.items[episodeKey(season, episodeNum)]
	if !ok {
		return episode.Ledger{}, false, nil
	}

	return cloneLedger(ledger), true, nil
}

func (r *EpisodeRepository) Upsert(_ context.Context, ledger episode.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[episodeKey(ledger.Season, ledger.Episode)] = cloneLedger(ledger)
	return nil
}

func (r *EpisodeRepository) ListBySeason(_ context.Context, season int) ([]episode.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]episode.Ledger, 0, len(r.items))
	for _, ledger := range r.items {
		if ledger.Season != season {
			continue
		}
		out = append(out, cloneLedger(ledger))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Episode < out[j].Episode })

	return out, nil
}

func episodeKey(season, episodeNum int) string {
	return fmt.Sprintf("%d::%d", season, episodeNum)
}

func cloneLedger(l episode.Ledger) episode.Ledger {
	copied := l
	if l.Events != nil {
		copied.Events = make(map[string][]event.Event, len(l.Events))
		for castawayID, events := range l.Events {
			copied.Events[castawayID] = append([]event.Event(nil), events...)
		}
	}
	return copied
}
