package season

import (
	"testing"
	"time"
)

func testClock(t *testing.T) Clock {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	premiere := time.Date(2026, time.February, 25, 0, 0, 0, 0, loc)
	return NewClock(premiere, time.Wednesday, 20, loc)
}

func TestCurrentWeek(t *testing.T) {
	clock := testClock(t)
	loc := clock.Location

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "before premiere is draft week",
			now:  time.Date(2026, time.February, 10, 12, 0, 0, 0, loc),
			want: 0,
		},
		{
			name: "premiere day before lock is still draft week",
			now:  time.Date(2026, time.February, 25, 19, 59, 0, 0, loc),
			want: 0,
		},
		{
			name: "exactly at first lock is still draft week",
			now:  time.Date(2026, time.February, 25, 20, 0, 0, 0, loc),
			want: 0,
		},
		{
			name: "just past first lock is week 1",
			now:  time.Date(2026, time.February, 25, 20, 0, 1, 0, loc),
			want: 1,
		},
		{
			name: "six days later is still week 1",
			now:  time.Date(2026, time.March, 3, 12, 0, 0, 0, loc),
			want: 1,
		},
		{
			name: "past second lock is week 2",
			now:  time.Date(2026, time.March, 4, 20, 30, 0, 0, loc),
			want: 2,
		},
		{
			name: "lock stays at 8pm local across DST",
			// US DST starts 2026-03-08; week 3 opens at the March 11 lock.
			now: time.Date(2026, time.March, 11, 20, 0, 1, 0, loc),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clock.CurrentWeek(tt.now); got != tt.want {
				t.Fatalf("CurrentWeek(%s) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestCurrentWeek_Monotonic(t *testing.T) {
	clock := testClock(t)

	start := time.Date(2026, time.February, 20, 0, 0, 0, 0, clock.Location)
	prev := clock.CurrentWeek(start)
	for step := 0; step < 24*7*10; step++ {
		now := start.Add(time.Duration(step) * time.Hour)
		week := clock.CurrentWeek(now)
		if week < prev {
			t.Fatalf("week decreased from %d to %d at %s", prev, week, now)
		}
		prev = week
	}
}

func TestNextLockTime(t *testing.T) {
	clock := testClock(t)
	loc := clock.Location

	now := time.Date(2026, time.February, 26, 9, 0, 0, 0, loc)
	got := clock.NextLockTime(now)
	want := time.Date(2026, time.March, 4, 20, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("NextLockTime = %s, want %s", got, want)
	}

	beforePremiere := time.Date(2026, time.January, 1, 0, 0, 0, 0, loc)
	got = clock.NextLockTime(beforePremiere)
	want = time.Date(2026, time.February, 25, 20, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("NextLockTime before premiere = %s, want %s", got, want)
	}
}
