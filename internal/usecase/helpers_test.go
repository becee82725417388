package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/season"
)

const testSeason = 50

// testClock returns the season-50 week clock plus one instant inside each of
// weeks 0, 1 and 2. The premiere airs Wednesday 2026-02-25 and rosters lock
// Wednesdays at 20:00 Eastern.
func testClock(t *testing.T) (season.Clock, time.Time, time.Time, time.Time) {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	premiere := time.Date(2026, time.February, 25, 0, 0, 0, 0, loc)
	clock := season.NewClock(premiere, time.Wednesday, 20, loc)

	week0 := time.Date(2026, time.February, 25, 10, 0, 0, 0, loc)
	week1 := time.Date(2026, time.February, 26, 9, 0, 0, 0, loc)
	week2 := time.Date(2026, time.March, 5, 9, 0, 0, 0, loc)

	return clock, week0, week1, week2
}

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type recorderNotifier struct {
	events []ScoresUpdatedEvent
}

func (n *recorderNotifier) PublishScoresUpdated(_ context.Context, evt ScoresUpdatedEvent) error {
	n.events = append(n.events, evt)
	return nil
}

type recorderRecomputer struct {
	allCalls    int
	leagueCalls []string
}

func (r *recorderRecomputer) RecomputeAll(context.Context) error {
	r.allCalls++
	return nil
}

func (r *recorderRecomputer) RecomputeLeague(_ context.Context, leagueID string) error {
	r.leagueCalls = append(r.leagueCalls, leagueID)
	return nil
}
