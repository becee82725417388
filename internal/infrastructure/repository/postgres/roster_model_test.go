package postgres

import (
	"testing"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
)

func TestRosterDocRoundTrip(t *testing.T) {
	t.Parallel()

	dropped := 3
	timeline := roster.Timeline{
		LeagueID: "league-founders",
		UserID:   "user-owner",
		Entries: []roster.Entry{
			{CastawayID: "castaway-01", Status: roster.StatusActive, AddedWeek: 0, Points: 12},
			{CastawayID: "castaway-02", Status: roster.StatusDropped, AddedWeek: 0, DroppedWeek: &dropped},
		},
		Snapshots: map[int][]roster.Entry{
			0: {{CastawayID: "castaway-01", Status: roster.StatusActive}},
			3: {{CastawayID: "castaway-01", Status: roster.StatusActive, Points: 12}},
		},
	}

	encoded, err := encodeRosterDoc(timeline)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	row := rosterTableModel{
		LeagueID:  timeline.LeagueID,
		UserID:    timeline.UserID,
		Doc:       encoded,
		Version:   4,
		UpdatedAt: time.Date(2026, 3, 18, 1, 0, 0, 0, time.UTC),
	}
	decoded, err := row.toDomain()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Version != 4 {
		t.Fatalf("version = %d, want 4", decoded.Version)
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(decoded.Entries))
	}
	if decoded.Entries[1].DroppedWeek == nil || *decoded.Entries[1].DroppedWeek != 3 {
		t.Fatalf("dropped week not preserved: %+v", decoded.Entries[1])
	}
	if len(decoded.Snapshots) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(decoded.Snapshots))
	}
	if _, ok := decoded.Snapshots[3]; !ok {
		t.Fatal("week 3 snapshot missing after round trip")
	}
}

func TestRosterDocDecodeRejectsBadSnapshotKey(t *testing.T) {
	t.Parallel()

	row := rosterTableModel{Doc: []byte(`{"entries":[],"snapshots":{"not-a-week":[]}}`)}
	if _, err := row.toDomain(); err == nil {
		t.Fatal("expected decode error for non-numeric snapshot week")
	}
}
