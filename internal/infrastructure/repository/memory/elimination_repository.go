package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
)

type EliminationRepository struct {
	mu    sync.RWMutex
	items map[string]elimination.Record
}

func NewEliminationRepository() *EliminationRepository {
	return &EliminationRepository{items: make(map[string]elimination.Record)}
}

func (r *EliminationRepository) Mark(_ context.Context, record elimination.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[eliminationKey(record.Scope, record.CastawayID)] = record
	return nil
}

func (r *EliminationRepository) Unmark(_ context.Context, scope elimination.Scope, castawayID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, eliminationKey(scope, castawayID))
	return nil
}

func (r *EliminationRepository) IsEliminated(_ context.Context, scope elimination.Scope, castawayID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[eliminationKey(scope, castawayID)]
	return ok, nil
}

func (r *EliminationRepository) ListEliminated(_ context.Context, scope elimination.Scope) ([]elimination.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]elimination.Record, 0)
	for _, record := range r.items {
		if record.Scope != scope {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].CastawayID < out[j].CastawayID
	})

	return out, nil
}

func eliminationKey(scope elimination.Scope, castawayID string) string {
	return fmt.Sprintf("%s::%d::%s", scope.LeagueID, scope.Season, castawayID)
}
