package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
)

// RosterRepository stores each timeline as one JSONB document guarded by a
// version column. Upsert is a compare-and-swap: the write lands only when the
// caller read the latest revision.
type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Get(ctx context.Context, leagueID, userID string) (roster.Timeline, bool, error) {
	const query = `
SELECT league_id, user_id, doc, version, updated_at
FROM roster_timelines
WHERE league_id = $1
  AND user_id = $2`

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, userID); err != nil {
		if isNotFound(err) {
			return roster.Timeline{}, false, nil
		}
		return roster.Timeline{}, false, fmt.Errorf("get roster timeline: %w", err)
	}

	timeline, err := row.toDomain()
	if err != nil {
		return roster.Timeline{}, false, err
	}
	return timeline, true, nil
}

func (r *RosterRepository) Upsert(ctx context.Context, timeline roster.Timeline) error {
	encoded, err := encodeRosterDoc(timeline)
	if err != nil {
		return fmt.Errorf("encode roster document: %w", err)
	}

	// A fresh row always inserts; a conflicting row only updates when the
	// stored version matches the one the caller read. A swallowed update
	// surfaces as ErrNoRows from RETURNING.
	const query = `
INSERT INTO roster_timelines (league_id, user_id, doc, version, updated_at)
VALUES ($1, $2, $3, $4 + 1, $5)
ON CONFLICT (league_id, user_id)
DO UPDATE SET
    doc = EXCLUDED.doc,
    version = roster_timelines.version + 1,
    updated_at = EXCLUDED.updated_at
WHERE roster_timelines.version = $4
RETURNING version`

	var newVersion int64
	err = r.db.GetContext(ctx, &newVersion, query,
		timeline.LeagueID, timeline.UserID, encoded, timeline.Version, timeline.UpdatedAt)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("upsert roster timeline: %w", err)
	}

	stored, exists, storedErr := r.storedVersion(ctx, timeline.LeagueID, timeline.UserID)
	if storedErr != nil || !exists {
		return fmt.Errorf("%w: given=%d", roster.ErrVersionConflict, timeline.Version)
	}
	return fmt.Errorf("%w: stored=%d given=%d", roster.ErrVersionConflict, stored, timeline.Version)
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Timeline, error) {
	const query = `
SELECT league_id, user_id, doc, version, updated_at
FROM roster_timelines
WHERE league_id = $1
ORDER BY user_id`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list roster timelines by league: %w", err)
	}
	return rosterRowsToDomain(rows)
}

func (r *RosterRepository) ListByCastaway(ctx context.Context, castawayID string) ([]roster.Timeline, error) {
	const query = `
SELECT league_id, user_id, doc, version, updated_at
FROM roster_timelines
WHERE EXISTS (
    SELECT 1
    FROM jsonb_array_elements(doc -> 'entries') AS entry
    WHERE entry ->> 'castawayId' = $1
)
ORDER BY league_id, user_id`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, castawayID); err != nil {
		return nil, fmt.Errorf("list roster timelines by castaway: %w", err)
	}
	return rosterRowsToDomain(rows)
}

func (r *RosterRepository) storedVersion(ctx context.Context, leagueID, userID string) (int64, bool, error) {
	const query = `
SELECT version
FROM roster_timelines
WHERE league_id = $1
  AND user_id = $2`

	var version int64
	if err := r.db.GetContext(ctx, &version, query, leagueID, userID); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return version, true, nil
}

func rosterRowsToDomain(rows []rosterTableModel) ([]roster.Timeline, error) {
	out := make([]roster.Timeline, 0, len(rows))
	for _, row := range rows {
		timeline, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, timeline)
	}
	return out, nil
}
