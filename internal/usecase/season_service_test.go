package usecase

import (
	"testing"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/season"
)

func TestSeasonService_Info(t *testing.T) {
	clock, week0, week1, _ := testClock(t)
	service := NewSeasonService(
		season.Season{Number: testSeason, Name: "Season 50", PremiereDate: clock.Premiere},
		clock,
		roster.DefaultRules(),
	)

	service.now = func() time.Time { return week0 }
	info := service.Info(t.Context())
	if info.CurrentWeek != 0 {
		t.Fatalf("CurrentWeek = %d, want 0 before the first lock", info.CurrentWeek)
	}
	if info.Season != testSeason || info.RosterSize != 5 || info.NetChangeCap != 1 {
		t.Fatalf("info = %+v", info)
	}

	service.now = func() time.Time { return week1 }
	info = service.Info(t.Context())
	if info.CurrentWeek != 1 {
		t.Fatalf("CurrentWeek = %d, want 1 after the first lock", info.CurrentWeek)
	}

	wantLock := time.Date(2026, time.March, 4, 20, 0, 0, 0, week1.Location())
	if !info.NextLockTime.Equal(wantLock) {
		t.Fatalf("NextLockTime = %v, want %v", info.NextLockTime, wantLock)
	}
}
