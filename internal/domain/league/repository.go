package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByJoinCode(ctx context.Context, joinCode string) (League, bool, error)
	ListActive(ctx context.Context) ([]League, error)
	Upsert(ctx context.Context, item League) error
	UpdateMemberPoints(ctx context.Context, leagueID, userID string, points int) error
}
