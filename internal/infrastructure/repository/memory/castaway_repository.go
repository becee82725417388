package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
)

type CastawayRepository struct {
	mu    sync.RWMutex
	items map[string]castaway.Castaway
}

func NewCastawayRepository(seed ...castaway.Castaway) *CastawayRepository {
	repo := &CastawayRepository{items: make(map[string]castaway.Castaway, len(seed))}
	for _, item := range seed {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *CastawayRepository) GetByID(_ context.Context, castawayID string) (castaway.Castaway, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[castawayID]
	return item, ok, nil
}

func (r *CastawayRepository) ListBySeason(_ context.Context, season int) ([]castaway.Castaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]castaway.Castaway, 0, len(r.items))
	for _, item := range r.items {
		if item.Season != season {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
