package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/repository/memory"
)

var draftIDs = []string{"castaway-01", "castaway-02", "castaway-03", "castaway-04", "castaway-05"}

func newRosterService(t *testing.T) (*RosterService, *memory.EliminationRepository, time.Time, time.Time, time.Time) {
	t.Helper()

	clock, week0, week1, week2 := testClock(t)
	service := NewRosterService(
		memory.NewRosterRepository(),
		memory.NewLeagueRepository(memory.SeedLeagues()...),
		memory.NewCastawayRepository(memory.SeedCastaways()...),
		memory.NewEliminationRepository(),
		roster.DefaultRules(),
		clock,
		elimination.ScopeModeGlobal,
		testSeason,
		nil,
	)
	elimRepo := service.eliminationRepo.(*memory.EliminationRepository)
	service.now = func() time.Time { return week0 }

	return service, elimRepo, week0, week1, week2
}

func draftFoundersRoster(t *testing.T, service *RosterService) roster.Timeline {
	t.Helper()

	timeline, err := service.DraftRoster(t.Context(), DraftRosterInput{
		UserID:      "user-owner",
		LeagueID:    memory.LeagueIDFounders,
		CastawayIDs: draftIDs,
	})
	if err != nil {
		t.Fatalf("draft roster: %v", err)
	}
	return timeline
}

func TestRosterService_DraftRoster(t *testing.T) {
	service, _, _, _, _ := newRosterService(t)

	timeline := draftFoundersRoster(t, service)

	if len(timeline.Entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(timeline.Entries))
	}
	for _, entry := range timeline.Entries {
		if !entry.Active() || entry.AddedWeek != 0 || entry.DroppedWeek != nil {
			t.Fatalf("entry = %+v, want active since week 0", entry)
		}
	}
	if _, ok := timeline.Snapshot(0); !ok {
		t.Fatal("draft must commit the week-0 snapshot")
	}
	if timeline.Version != 1 {
		t.Fatalf("Version = %d, want 1 after first write", timeline.Version)
	}
}

func TestRosterService_DraftRoster_WindowClosedAfterPremiere(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	service.now = func() time.Time { return week1 }

	_, err := service.DraftRoster(t.Context(), DraftRosterInput{
		UserID:      "user-owner",
		LeagueID:    memory.LeagueIDFounders,
		CastawayIDs: draftIDs,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestRosterService_DraftRoster_RejectsEliminated(t *testing.T) {
	service, elimRepo, week0, _, _ := newRosterService(t)

	scope := elimination.ScopeFor(elimination.ScopeModeGlobal, memory.LeagueIDFounders, testSeason)
	if err := elimRepo.Mark(context.Background(), elimination.Record{
		Scope:        scope,
		CastawayID:   "castaway-03",
		Week:         1,
		EliminatedAt: week0,
	}); err != nil {
		t.Fatalf("mark eliminated: %v", err)
	}

	_, err := service.DraftRoster(t.Context(), DraftRosterInput{
		UserID:      "user-owner",
		LeagueID:    memory.LeagueIDFounders,
		CastawayIDs: draftIDs,
	})
	if !errors.Is(err, roster.ErrCastawayEliminated) {
		t.Fatalf("got %v, want ErrCastawayEliminated", err)
	}
}

func TestRosterService_DraftRoster_NonMemberUnauthorized(t *testing.T) {
	service, _, _, _, _ := newRosterService(t)

	_, err := service.DraftRoster(t.Context(), DraftRosterInput{
		UserID:      "user-stranger",
		LeagueID:    memory.LeagueIDFounders,
		CastawayIDs: draftIDs,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestRosterService_AddDrop_NetChangeCapIsCumulative(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)

	service.now = func() time.Time { return week1 }

	timeline, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-01",
		AddCastawayID:  "castaway-06",
	})
	if err != nil {
		t.Fatalf("first swap: %v", err)
	}
	active := roster.ActiveIDs(timeline.Entries)
	if _, in := active["castaway-06"]; !in {
		t.Fatal("castaway-06 must be active after swap")
	}
	if _, in := active["castaway-01"]; in {
		t.Fatal("castaway-01 must be inactive after swap")
	}

	// A second distinct swap in the same week departs two castaways from the
	// week-0 snapshot and must trip the cap.
	_, err = service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-02",
		AddCastawayID:  "castaway-07",
	})
	if !errors.Is(err, roster.ErrNetChangeExceeded) {
		t.Fatalf("got %v, want ErrNetChangeExceeded", err)
	}
}

func TestRosterService_AddDrop_UndoReactivatesWithoutDuplicate(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)
	service.now = func() time.Time { return week1 }

	if _, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-01",
		AddCastawayID:  "castaway-06",
	}); err != nil {
		t.Fatalf("swap: %v", err)
	}

	// Undoing lands back on the week-0 set: net change zero, always legal.
	timeline, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-06",
		AddCastawayID:  "castaway-01",
	})
	if err != nil {
		t.Fatalf("undo swap: %v", err)
	}

	count := 0
	for _, entry := range timeline.Entries {
		if entry.CastawayID == "castaway-01" {
			count++
			if !entry.Active() || entry.AddedWeek != 1 || entry.DroppedWeek != nil {
				t.Fatalf("reactivated entry = %+v", entry)
			}
		}
	}
	if count != 1 {
		t.Fatalf("castaway-01 appears %d times, want 1", count)
	}
}

func TestRosterService_AddDrop_RejectsEliminatedAdd(t *testing.T) {
	service, elimRepo, week0, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)
	service.now = func() time.Time { return week1 }

	scope := elimination.ScopeFor(elimination.ScopeModeGlobal, memory.LeagueIDFounders, testSeason)
	if err := elimRepo.Mark(context.Background(), elimination.Record{
		Scope:        scope,
		CastawayID:   "castaway-06",
		Week:         1,
		EliminatedAt: week0,
	}); err != nil {
		t.Fatalf("mark eliminated: %v", err)
	}

	_, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-01",
		AddCastawayID:  "castaway-06",
	})
	if !errors.Is(err, roster.ErrCastawayEliminated) {
		t.Fatalf("got %v, want ErrCastawayEliminated", err)
	}
}

func TestRosterService_AddDrop_ClosedBeforePremiere(t *testing.T) {
	service, _, _, _, _ := newRosterService(t)
	draftFoundersRoster(t, service)

	_, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-01",
		AddCastawayID:  "castaway-06",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestRosterService_ResetToPreviousWeek(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)
	service.now = func() time.Time { return week1 }

	if _, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-01",
		AddCastawayID:  "castaway-06",
	}); err != nil {
		t.Fatalf("swap: %v", err)
	}

	timeline, err := service.ResetToPreviousWeek(t.Context(), "user-owner", memory.LeagueIDFounders)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	active := roster.ActiveIDs(timeline.Entries)
	for _, id := range draftIDs {
		if _, in := active[id]; !in {
			t.Fatalf("%s missing after reset", id)
		}
	}
	if _, in := active["castaway-06"]; in {
		t.Fatal("castaway-06 must be gone after reset")
	}

	// The roster now matches the previous week; a second reset is a no-op and
	// rejected.
	if _, err := service.ResetToPreviousWeek(t.Context(), "user-owner", memory.LeagueIDFounders); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestRosterService_ResetToPreviousWeek_KeepsEliminations(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)
	service.now = func() time.Time { return week1 }

	if _, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-02",
		AddCastawayID:  "castaway-06",
	}); err != nil {
		t.Fatalf("swap: %v", err)
	}

	eliminations := NewEliminationService(
		service.eliminationRepo, service.castawayRepo, service.leagueRepo, service.rosterRepo,
		elimination.ScopeModeGlobal, testSeason, nil,
	)
	if err := eliminations.MarkEliminated(t.Context(), MarkEliminatedInput{
		CastawayID: "castaway-01",
		Week:       1,
	}); err != nil {
		t.Fatalf("mark eliminated: %v", err)
	}

	timeline, err := service.ResetToPreviousWeek(t.Context(), "user-owner", memory.LeagueIDFounders)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	// The swap is undone, but the week-0 snapshot predates the elimination and
	// must not revive castaway-01.
	var found bool
	for _, entry := range timeline.Entries {
		if entry.CastawayID != "castaway-01" {
			continue
		}
		found = true
		if entry.Status != roster.StatusEliminated {
			t.Fatalf("castaway-01 status = %s, want eliminated after reset", entry.Status)
		}
		if entry.DroppedWeek == nil || *entry.DroppedWeek != 2 {
			t.Fatalf("castaway-01 DroppedWeek = %v, want 2", entry.DroppedWeek)
		}
	}
	if !found {
		t.Fatal("castaway-01 missing from restored roster")
	}
	active := roster.ActiveIDs(timeline.Entries)
	if _, in := active["castaway-06"]; in {
		t.Fatal("castaway-06 must be gone after reset")
	}
}

func TestRosterService_ResetToPreviousWeek_EliminationAloneIsNoChange(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)
	service.now = func() time.Time { return week1 }

	eliminations := NewEliminationService(
		service.eliminationRepo, service.castawayRepo, service.leagueRepo, service.rosterRepo,
		elimination.ScopeModeGlobal, testSeason, nil,
	)
	if err := eliminations.MarkEliminated(t.Context(), MarkEliminatedInput{
		CastawayID: "castaway-01",
		Week:       1,
	}); err != nil {
		t.Fatalf("mark eliminated: %v", err)
	}

	// An elimination is not a user change: with nothing else touched this week
	// there is nothing to reset.
	_, err := service.ResetToPreviousWeek(t.Context(), "user-owner", memory.LeagueIDFounders)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestRosterService_SnapshotForWeek_Missing(t *testing.T) {
	service, _, _, _, _ := newRosterService(t)
	draftFoundersRoster(t, service)

	_, err := service.SnapshotForWeek(t.Context(), "user-owner", memory.LeagueIDFounders, 4)
	if !errors.Is(err, roster.ErrNoSnapshotForWeek) {
		t.Fatalf("got %v, want ErrNoSnapshotForWeek", err)
	}
}

func TestRosterService_AvailableCastaways_ExcludesEliminated(t *testing.T) {
	service, elimRepo, week0, _, _ := newRosterService(t)

	scope := elimination.ScopeFor(elimination.ScopeModeGlobal, memory.LeagueIDFounders, testSeason)
	if err := elimRepo.Mark(context.Background(), elimination.Record{
		Scope:        scope,
		CastawayID:   "castaway-10",
		Week:         2,
		EliminatedAt: week0,
	}); err != nil {
		t.Fatalf("mark eliminated: %v", err)
	}

	available, err := service.AvailableCastaways(t.Context(), memory.LeagueIDFounders, "")
	if err != nil {
		t.Fatalf("available castaways: %v", err)
	}
	if len(available) != 19 {
		t.Fatalf("available = %d, want 19", len(available))
	}
	for _, member := range available {
		if member.ID == "castaway-10" {
			t.Fatal("eliminated castaway listed as available")
		}
	}
}

func TestRosterService_AvailableCastaways_ExcludesCallerRoster(t *testing.T) {
	service, _, _, week1, _ := newRosterService(t)
	draftFoundersRoster(t, service)
	service.now = func() time.Time { return week1 }

	// Drop castaway-01: it leaves the active roster and becomes pickable again.
	if _, err := service.AddDrop(t.Context(), AddDropInput{
		UserID:         "user-owner",
		LeagueID:       memory.LeagueIDFounders,
		DropCastawayID: "castaway-01",
		AddCastawayID:  "castaway-06",
	}); err != nil {
		t.Fatalf("swap: %v", err)
	}

	available, err := service.AvailableCastaways(t.Context(), memory.LeagueIDFounders, "user-owner")
	if err != nil {
		t.Fatalf("available castaways: %v", err)
	}

	// 20 in the cast, 4 active from the draft plus the added castaway-06.
	if len(available) != 15 {
		t.Fatalf("available = %d, want 15", len(available))
	}
	listed := map[string]bool{}
	for _, member := range available {
		listed[member.ID] = true
	}
	for _, id := range []string{"castaway-02", "castaway-03", "castaway-04", "castaway-05", "castaway-06"} {
		if listed[id] {
			t.Fatalf("%s is on the caller's roster and must not be listed", id)
		}
	}
	if !listed["castaway-01"] {
		t.Fatal("dropped castaway-01 must stay available for a re-add")
	}

	// Without a user the filter is elimination-only.
	all, err := service.AvailableCastaways(t.Context(), memory.LeagueIDFounders, "")
	if err != nil {
		t.Fatalf("available castaways: %v", err)
	}
	if len(all) != 20 {
		t.Fatalf("available = %d, want 20 without a caller roster", len(all))
	}
}
