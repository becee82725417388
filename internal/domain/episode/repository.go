package episode

import "context"

// Repository describes episode ledger persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, season, episode int) (Ledger, bool, error)
	Upsert(ctx context.Context, ledger Ledger) error
	ListBySeason(ctx context.Context, season int) ([]Ledger, error)
}
