package postgres

import (
	"fmt"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
)

type rosterTableModel struct {
	LeagueID  string    `db:"league_id"`
	UserID    string    `db:"user_id"`
	Doc       []byte    `db:"doc"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

type rosterEntryDoc struct {
	CastawayID  string `json:"castawayId"`
	Status      string `json:"status"`
	AddedWeek   int    `json:"addedWeek"`
	DroppedWeek *int   `json:"droppedWeek,omitempty"`
	Points      int    `json:"points"`
}

// rosterDoc is the JSONB shape of one timeline. Snapshot weeks are kept as
// string keys because JSON object keys cannot be numbers.
type rosterDoc struct {
	Entries   []rosterEntryDoc            `json:"entries"`
	Snapshots map[string][]rosterEntryDoc `json:"snapshots,omitempty"`
}

func encodeRosterDoc(timeline roster.Timeline) ([]byte, error) {
	doc := rosterDoc{Entries: entriesToDoc(timeline.Entries)}
	if len(timeline.Snapshots) > 0 {
		doc.Snapshots = make(map[string][]rosterEntryDoc, len(timeline.Snapshots))
		for week, entries := range timeline.Snapshots {
			doc.Snapshots[strconv.Itoa(week)] = entriesToDoc(entries)
		}
	}
	return sonic.Marshal(doc)
}

func (m rosterTableModel) toDomain() (roster.Timeline, error) {
	var doc rosterDoc
	if err := sonic.Unmarshal(m.Doc, &doc); err != nil {
		return roster.Timeline{}, fmt.Errorf("decode roster document: %w", err)
	}

	timeline := roster.Timeline{
		LeagueID:  m.LeagueID,
		UserID:    m.UserID,
		Entries:   entriesFromDoc(doc.Entries),
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
	if len(doc.Snapshots) > 0 {
		timeline.Snapshots = make(map[int][]roster.Entry, len(doc.Snapshots))
		for key, entries := range doc.Snapshots {
			week, err := strconv.Atoi(key)
			if err != nil {
				return roster.Timeline{}, fmt.Errorf("decode roster snapshot week %q: %w", key, err)
			}
			timeline.Snapshots[week] = entriesFromDoc(entries)
		}
	}
	return timeline, nil
}

func entriesToDoc(entries []roster.Entry) []rosterEntryDoc {
	out := make([]rosterEntryDoc, 0, len(entries))
	for _, e := range entries {
		doc := rosterEntryDoc{
			CastawayID: e.CastawayID,
			Status:     string(e.Status),
			AddedWeek:  e.AddedWeek,
			Points:     e.Points,
		}
		if e.DroppedWeek != nil {
			week := *e.DroppedWeek
			doc.DroppedWeek = &week
		}
		out = append(out, doc)
	}
	return out
}

func entriesFromDoc(docs []rosterEntryDoc) []roster.Entry {
	out := make([]roster.Entry, 0, len(docs))
	for _, doc := range docs {
		entry := roster.Entry{
			CastawayID: doc.CastawayID,
			Status:     roster.Status(doc.Status),
			AddedWeek:  doc.AddedWeek,
			Points:     doc.Points,
		}
		if doc.DroppedWeek != nil {
			week := *doc.DroppedWeek
			entry.DroppedWeek = &week
		}
		out = append(out, entry)
	}
	return out
}
