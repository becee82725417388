package roster

import "time"

// Status tracks where a roster entry is in its lifecycle.
type Status string

const (
	StatusActive     Status = "active"
	StatusDropped    Status = "dropped"
	StatusEliminated Status = "eliminated"
)

// Entry is one castaway slot on a fantasy roster. DroppedWeek is set iff the
// entry is no longer active; AddedWeek <= DroppedWeek always holds. Points is
// a derived display value, recomputed from the ledger and never trusted as a
// source of truth.
type Entry struct {
	CastawayID  string
	Status      Status
	AddedWeek   int
	DroppedWeek *int
	Points      int
}

// Active reports whether the entry currently occupies a scoring slot.
func (e Entry) Active() bool {
	return e.Status == StatusActive
}

// Timeline is one user's roster history within a league: the live entry list
// plus an immutable snapshot per committed week. Version guards the
// read-modify-write cycle against concurrent commits.
type Timeline struct {
	LeagueID  string
	UserID    string
	Entries   []Entry
	Snapshots map[int][]Entry
	Version   int64
	UpdatedAt time.Time
}

// Snapshot returns the committed roster for week, if one exists.
func (t Timeline) Snapshot(week int) ([]Entry, bool) {
	entries, ok := t.Snapshots[week]
	if !ok {
		return nil, false
	}
	return CloneEntries(entries), true
}

// Commit sets entries as the live roster and overwrites the snapshot for
// week. A second commit within the same week replaces, never appends.
func (t *Timeline) Commit(week int, entries []Entry) {
	if t.Snapshots == nil {
		t.Snapshots = make(map[int][]Entry)
	}
	t.Entries = CloneEntries(entries)
	t.Snapshots[week] = CloneEntries(entries)
}

// ActiveIDs collects the castaway IDs of every active entry.
func ActiveIDs(entries []Entry) map[string]struct{} {
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Active() {
			out[e.CastawayID] = struct{}{}
		}
	}
	return out
}

// CloneEntries deep-copies an entry list so snapshots never alias the live
// roster.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		copied := e
		if e.DroppedWeek != nil {
			week := *e.DroppedWeek
			copied.DroppedWeek = &week
		}
		out[i] = copied
	}
	return out
}
