package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
)

type episodeTableModel struct {
	Season    int       `db:"season"`
	Episode   int       `db:"episode"`
	AirDate   time.Time `db:"air_date"`
	Events    []byte    `db:"events"`
	UpdatedAt time.Time `db:"updated_at"`
}

type episodeEventDoc struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

func encodeEpisodeEvents(events map[string][]event.Event) ([]byte, error) {
	doc := make(map[string][]episodeEventDoc, len(events))
	for castawayID, items := range events {
		rows := make([]episodeEventDoc, 0, len(items))
		for _, item := range items {
			rows = append(rows, episodeEventDoc{Kind: string(item.Kind), Count: item.Count})
		}
		doc[castawayID] = rows
	}
	return sonic.Marshal(doc)
}

func decodeEpisodeEvents(raw []byte) (map[string][]event.Event, error) {
	if len(raw) == 0 {
		return map[string][]event.Event{}, nil
	}
	var doc map[string][]episodeEventDoc
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode episode events document: %w", err)
	}

	out := make(map[string][]event.Event, len(doc))
	for castawayID, rows := range doc {
		items := make([]event.Event, 0, len(rows))
		for _, row := range rows {
			items = append(items, event.Event{Kind: event.Kind(row.Kind), Count: row.Count})
		}
		out[castawayID] = items
	}
	return out, nil
}

func (m episodeTableModel) toDomain() (episode.Ledger, error) {
	events, err := decodeEpisodeEvents(m.Events)
	if err != nil {
		return episode.Ledger{}, err
	}
	return episode.Ledger{
		Season:    m.Season,
		Episode:   m.Episode,
		AirDate:   m.AirDate,
		Events:    events,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
