package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
)

// EpisodeRepository persists one JSONB event document per (season, episode).
// Replacing an episode overwrites the document wholesale.
type EpisodeRepository struct {
	db *sqlx.DB
}

func NewEpisodeRepository(db *sqlx.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

func (r *EpisodeRepository) Get(ctx context.Context, season, episodeNumber int) (episode.Ledger, bool, error) {
	const query = `
SELECT season, episode, air_date, events, updated_at
FROM episode_ledgers
WHERE season = $1
  AND episode = $2`

	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, query, season, episodeNumber); err != nil {
		if isNotFound(err) {
			return episode.Ledger{}, false, nil
		}
		return episode.Ledger{}, false, fmt.Errorf("get episode ledger: %w", err)
	}

	ledger, err := row.toDomain()
	if err != nil {
		return episode.Ledger{}, false, err
	}
	return ledger, true, nil
}

func (r *EpisodeRepository) Upsert(ctx context.Context, ledger episode.Ledger) error {
	encoded, err := encodeEpisodeEvents(ledger.Events)
	if err != nil {
		return fmt.Errorf("encode episode events document: %w", err)
	}

	const query = `
INSERT INTO episode_ledgers (season, episode, air_date, events, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (season, episode)
DO UPDATE SET
    air_date = EXCLUDED.air_date,
    events = EXCLUDED.events,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query,
		ledger.Season, ledger.Episode, ledger.AirDate, encoded, ledger.UpdatedAt); err != nil {
		return fmt.Errorf("upsert episode ledger: %w", err)
	}
	return nil
}

func (r *EpisodeRepository) ListBySeason(ctx context.Context, season int) ([]episode.Ledger, error) {
	const query = `
SELECT season, episode, air_date, events, updated_at
FROM episode_ledgers
WHERE season = $1
ORDER BY episode`

	var rows []episodeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("list episode ledgers: %w", err)
	}

	out := make([]episode.Ledger, 0, len(rows))
	for _, row := range rows {
		ledger, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, ledger)
	}
	return out, nil
}
