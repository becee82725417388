package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
)

// LeagueRepository stores leagues with the member list as one JSONB column.
// Membership writes go through the use-case layer, so the document stays
// small and a row lock is enough to serialize point updates.
type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

const leagueColumns = `id, name, season, owner_id, join_code, max_players, members, status, created_at, updated_at`

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query := `
SELECT ` + leagueColumns + `
FROM leagues
WHERE id = $1`

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return item, true, nil
}

func (r *LeagueRepository) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	query := `
SELECT ` + leagueColumns + `
FROM leagues
WHERE join_code = $1`

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, joinCode); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by join code: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return item, true, nil
}

func (r *LeagueRepository) ListActive(ctx context.Context) ([]league.League, error) {
	query := `
SELECT ` + leagueColumns + `
FROM leagues
WHERE status = $1
ORDER BY id`

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, string(league.StatusActive)); err != nil {
		return nil, fmt.Errorf("list active leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	members, err := encodeLeagueMembers(item.Members)
	if err != nil {
		return fmt.Errorf("encode league members document: %w", err)
	}

	const query = `
INSERT INTO leagues (id, name, season, owner_id, join_code, max_players, members, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    season = EXCLUDED.season,
    owner_id = EXCLUDED.owner_id,
    join_code = EXCLUDED.join_code,
    max_players = EXCLUDED.max_players,
    members = EXCLUDED.members,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Season, item.OwnerID, item.JoinCode,
		item.MaxPlayers, members, string(item.Status), item.CreatedAt, item.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert league: join code %s already in use: %w", item.JoinCode, err)
		}
		return fmt.Errorf("upsert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) UpdateMemberPoints(ctx context.Context, leagueID, userID string, points int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for member points update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const selectQuery = `
SELECT members
FROM leagues
WHERE id = $1
FOR UPDATE`

	var raw []byte
	if err := tx.GetContext(ctx, &raw, selectQuery, leagueID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("league %s not found", leagueID)
		}
		return fmt.Errorf("lock league for member points update: %w", err)
	}

	members, err := decodeLeagueMembers(raw)
	if err != nil {
		return err
	}

	found := false
	for i := range members {
		if members[i].UserID == userID {
			members[i].Points = points
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("member %s not found in league %s", userID, leagueID)
	}

	encoded, err := encodeLeagueMembers(members)
	if err != nil {
		return fmt.Errorf("encode league members document: %w", err)
	}

	const updateQuery = `
UPDATE leagues
SET members = $1,
    updated_at = $2
WHERE id = $3`

	if _, err := tx.ExecContext(ctx, updateQuery, encoded, time.Now().UTC(), leagueID); err != nil {
		return fmt.Errorf("update league member points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit member points update: %w", err)
	}
	return nil
}
