package episode

import (
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
)

// Ledger is the full scoring record for one aired episode. Events are keyed
// by castaway ID; re-submitting an episode replaces the document wholesale.
type Ledger struct {
	Season    int
	Episode   int
	AirDate   time.Time
	Events    map[string][]event.Event
	UpdatedAt time.Time
}

// PointsForCastaway sums the castaway's event points for this episode.
// A castaway with no recorded events scores zero, never an error.
func (l Ledger) PointsForCastaway(castawayID string, catalog event.Catalog) int {
	return event.Points(l.Events[castawayID], catalog)
}

// Scores flattens the ledger into castawayID -> episode points.
func (l Ledger) Scores(catalog event.Catalog) map[string]int {
	out := make(map[string]int, len(l.Events))
	for castawayID, events := range l.Events {
		out[castawayID] = event.Points(events, catalog)
	}
	return out
}
