package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
)

type CastawayRepository struct {
	db *sqlx.DB
}

func NewCastawayRepository(db *sqlx.DB) *CastawayRepository {
	return &CastawayRepository{db: db}
}

type castawayTableModel struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Season int    `db:"season"`
	Tribe  string `db:"tribe"`
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	const query = `
SELECT id, name, season, tribe
FROM castaways
WHERE id = $1`

	var row castawayTableModel
	if err := r.db.GetContext(ctx, &row, query, castawayID); err != nil {
		if isNotFound(err) {
			return castaway.Castaway{}, false, nil
		}
		return castaway.Castaway{}, false, fmt.Errorf("get castaway: %w", err)
	}

	return castaway.Castaway{ID: row.ID, Name: row.Name, Season: row.Season, Tribe: row.Tribe}, true, nil
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, season int) ([]castaway.Castaway, error) {
	const query = `
SELECT id, name, season, tribe
FROM castaways
WHERE season = $1
ORDER BY id`

	var rows []castawayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("list castaways: %w", err)
	}

	out := make([]castaway.Castaway, 0, len(rows))
	for _, row := range rows {
		out = append(out, castaway.Castaway{ID: row.ID, Name: row.Name, Season: row.Season, Tribe: row.Tribe})
	}
	return out, nil
}

// SeedCast inserts the season cast, leaving already-present rows untouched.
// Ran at startup so a fresh database serves the cast list immediately.
func (r *CastawayRepository) SeedCast(ctx context.Context, cast []castaway.Castaway) error {
	const query = `
INSERT INTO castaways (id, name, season, tribe)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`

	for _, item := range cast {
		if _, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Season, item.Tribe); err != nil {
			return fmt.Errorf("seed castaway %s: %w", item.ID, err)
		}
	}
	return nil
}
