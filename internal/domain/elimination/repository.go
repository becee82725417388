package elimination

import "context"

// Repository describes eliminated-set persistence needs from use cases.
// Absence from the set means "still in the game".
type Repository interface {
	Mark(ctx context.Context, record Record) error
	Unmark(ctx context.Context, scope Scope, castawayID string) error
	IsEliminated(ctx context.Context, scope Scope, castawayID string) (bool, error)
	ListEliminated(ctx context.Context, scope Scope) ([]Record, error)
}
