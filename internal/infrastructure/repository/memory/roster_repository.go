package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Timeline
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{items: make(map[string]roster.Timeline)}
}

func (r *RosterRepository) Get(_ context.Context, leagueID, userID string) (roster.Timeline, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timeline, ok := r.items[rosterKey(leagueID, userID)]
	if !ok {
		return roster.Timeline{}, false, nil
	}

	return cloneTimeline(timeline), true, nil
}

// Upsert applies a compare-and-swap on Version: the write succeeds only when
// the caller read the latest revision.
func (r *RosterRepository) Upsert(_ context.Context, timeline roster.Timeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rosterKey(timeline.LeagueID, timeline.UserID)
	if stored, ok := r.items[key]; ok && stored.Version != timeline.Version {
		return fmt.Errorf("%w: stored=%d given=%d", roster.ErrVersionConflict, stored.Version, timeline.Version)
	}

	timeline.Version++
	r.items[key] = cloneTimeline(timeline)
	return nil
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Timeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Timeline, 0)
	for _, timeline := range r.items {
		if timeline.LeagueID != leagueID {
			continue
		}
		out = append(out, cloneTimeline(timeline))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (r *RosterRepository) ListByCastaway(_ context.Context, castawayID string) ([]roster.Timeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Timeline, 0)
	for _, timeline := range r.items {
		for _, entry := range timeline.Entries {
			if entry.CastawayID == castawayID {
				out = append(out, cloneTimeline(timeline))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LeagueID != out[j].LeagueID {
			return out[i].LeagueID < out[j].LeagueID
		}
		return out[i].UserID < out[j].UserID
	})

	return out, nil
}

func rosterKey(leagueID, userID string) string {
	return leagueID + "::" + userID
}

func cloneTimeline(t roster.Timeline) roster.Timeline {
	copied := t
	copied.Entries = roster.CloneEntries(t.Entries)
	if t.Snapshots != nil {
		copied.Snapshots = make(map[int][]roster.Entry, len(t.Snapshots))
		for week, entries := range t.Snapshots {
			copied.Snapshots[week] = roster.CloneEntries(entries)
		}
	}
	return copied
}
