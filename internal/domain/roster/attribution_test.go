package roster

import "testing"

func TestTotalPoints_HalfOpenInterval(t *testing.T) {
	scores := map[int]map[string]int{
		0: {"C": 2},
		1: {"C": 5},
		2: {"C": 1},
		3: {"C": 10},
		4: {"C": 3},
	}

	entries := []Entry{
		{CastawayID: "C", Status: StatusDropped, AddedWeek: 0, DroppedWeek: intPtr(3)},
	}

	// Weeks 0-2 count; the drop week (3) and after do not.
	if got := TotalPoints(entries, scores); got != 8 {
		t.Fatalf("TotalPoints = %d, want 8", got)
	}
}

func TestTotalPoints_NeverDropped(t *testing.T) {
	scores := map[int]map[string]int{
		1: {"C": 4, "X": 100},
		2: {"C": 6},
	}
	entries := []Entry{
		{CastawayID: "C", Status: StatusActive, AddedWeek: 0},
	}

	if got := TotalPoints(entries, scores); got != 10 {
		t.Fatalf("TotalPoints = %d, want 10", got)
	}
}

func TestTotalPoints_AddedMidSeason(t *testing.T) {
	scores := map[int]map[string]int{
		1: {"C": 7},
		2: {"C": 3},
		3: {"C": 2},
	}
	entries := []Entry{
		{CastawayID: "C", Status: StatusActive, AddedWeek: 2},
	}

	if got := TotalPoints(entries, scores); got != 5 {
		t.Fatalf("TotalPoints = %d, want 5", got)
	}
}

func TestTotalPoints_NegativeNotFloored(t *testing.T) {
	scores := map[int]map[string]int{
		4: {"C": -10},
		5: {"C": 1},
	}
	entries := []Entry{
		{CastawayID: "C", Status: StatusActive, AddedWeek: 0},
	}

	if got := TotalPoints(entries, scores); got != -9 {
		t.Fatalf("TotalPoints = %d, want -9", got)
	}
}

func TestTotalPoints_EliminatedViaDroppedWeek(t *testing.T) {
	// Eliminated in week 4: the voted-out episode still counts, later
	// weeks do not, so the cascade records DroppedWeek=5.
	scores := map[int]map[string]int{
		3: {"C": 4},
		4: {"C": -10},
		5: {"C": 99},
	}
	entries := []Entry{
		{CastawayID: "C", Status: StatusEliminated, AddedWeek: 0, DroppedWeek: intPtr(5)},
	}

	if got := TotalPoints(entries, scores); got != -6 {
		t.Fatalf("TotalPoints = %d, want -6", got)
	}
}

func TestTotalPoints_Idempotent(t *testing.T) {
	scores := map[int]map[string]int{
		0: {"A": 3, "B": 1},
		1: {"A": 2, "B": 8},
		2: {"A": 5},
	}
	entries := []Entry{
		{CastawayID: "A", Status: StatusActive, AddedWeek: 0},
		{CastawayID: "B", Status: StatusDropped, AddedWeek: 0, DroppedWeek: intPtr(1)},
	}

	first := TotalPoints(entries, scores)
	second := TotalPoints(entries, scores)
	if first != second {
		t.Fatalf("recompute drifted: %d then %d", first, second)
	}
	if first != 11 {
		t.Fatalf("TotalPoints = %d, want 11", first)
	}
}

func TestTotalPoints_MissingDataIsZero(t *testing.T) {
	entries := []Entry{
		{CastawayID: "A", Status: StatusActive, AddedWeek: 0},
	}

	if got := TotalPoints(entries, nil); got != 0 {
		t.Fatalf("TotalPoints with no episodes = %d, want 0", got)
	}
	if got := TotalPoints(nil, map[int]map[string]int{1: {"A": 5}}); got != 0 {
		t.Fatalf("TotalPoints with no entries = %d, want 0", got)
	}
}
