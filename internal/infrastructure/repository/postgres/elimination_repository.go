package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
)

// EliminationRepository stores the eliminated-castaway set. Global scopes
// use the empty league_id, so one unique key covers both scope modes.
type EliminationRepository struct {
	db *sqlx.DB
}

func NewEliminationRepository(db *sqlx.DB) *EliminationRepository {
	return &EliminationRepository{db: db}
}

type eliminationTableModel struct {
	LeagueID     string    `db:"league_id"`
	Season       int       `db:"season"`
	CastawayID   string    `db:"castaway_id"`
	Week         int       `db:"week"`
	EliminatedAt time.Time `db:"eliminated_at"`
}

func (r *EliminationRepository) Mark(ctx context.Context, record elimination.Record) error {
	const query = `
INSERT INTO eliminations (league_id, season, castaway_id, week, eliminated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (league_id, season, castaway_id)
DO UPDATE SET
    week = EXCLUDED.week,
    eliminated_at = EXCLUDED.eliminated_at`

	if _, err := r.db.ExecContext(ctx, query,
		record.Scope.LeagueID, record.Scope.Season, record.CastawayID, record.Week, record.EliminatedAt); err != nil {
		return fmt.Errorf("mark elimination: %w", err)
	}
	return nil
}

func (r *EliminationRepository) Unmark(ctx context.Context, scope elimination.Scope, castawayID string) error {
	const query = `
DELETE FROM eliminations
WHERE league_id = $1
  AND season = $2
  AND castaway_id = $3`

	if _, err := r.db.ExecContext(ctx, query, scope.LeagueID, scope.Season, castawayID); err != nil {
		return fmt.Errorf("unmark elimination: %w", err)
	}
	return nil
}

func (r *EliminationRepository) IsEliminated(ctx context.Context, scope elimination.Scope, castawayID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1
    FROM eliminations
    WHERE league_id = $1
      AND season = $2
      AND castaway_id = $3
)`

	var eliminated bool
	if err := r.db.GetContext(ctx, &eliminated, query, scope.LeagueID, scope.Season, castawayID); err != nil {
		return false, fmt.Errorf("check elimination: %w", err)
	}
	return eliminated, nil
}

func (r *EliminationRepository) ListEliminated(ctx context.Context, scope elimination.Scope) ([]elimination.Record, error) {
	const query = `
SELECT league_id, season, castaway_id, week, eliminated_at
FROM eliminations
WHERE league_id = $1
  AND season = $2
ORDER BY week, castaway_id`

	var rows []eliminationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, scope.LeagueID, scope.Season); err != nil {
		return nil, fmt.Errorf("list eliminations: %w", err)
	}

	out := make([]elimination.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, elimination.Record{
			Scope:        elimination.Scope{LeagueID: row.LeagueID, Season: row.Season},
			CastawayID:   row.CastawayID,
			Week:         row.Week,
			EliminatedAt: row.EliminatedAt,
		})
	}
	return out, nil
}
