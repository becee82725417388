package roster

import (
	"context"
	"errors"
)

// ErrVersionConflict reports a lost optimistic-concurrency race: the stored
// timeline changed between read and write. Callers re-read and retry.
var ErrVersionConflict = errors.New("roster timeline version conflict")

// Repository describes roster timeline persistence needs from use cases.
// Upsert must compare the timeline's Version against the stored document and
// fail with ErrVersionConflict on mismatch.
type Repository interface {
	Get(ctx context.Context, leagueID, userID string) (Timeline, bool, error)
	Upsert(ctx context.Context, timeline Timeline) error
	ListByLeague(ctx context.Context, leagueID string) ([]Timeline, error)
	ListByCastaway(ctx context.Context, castawayID string) ([]Timeline, error)
}
