package castaway

import "context"

// Repository describes cast catalog persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, castawayID string) (Castaway, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Castaway, error)
}
