package usecase

import (
	"context"
	"time"
)

// ScoresUpdatedEvent announces that derived scores changed and downstream
// consumers (league frontends, notification fanout) should refetch.
type ScoresUpdatedEvent struct {
	Season     int       `json:"season"`
	Episode    int       `json:"episode,omitempty"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ScoreNotifier publishes score-change events to an external webhook.
// Publishing is best effort; scoring never fails because a hook is down.
type ScoreNotifier interface {
	PublishScoresUpdated(ctx context.Context, evt ScoresUpdatedEvent) error
}

// scoreRecomputer re-derives member totals after ledger or elimination
// changes. Implemented by RecomputeService.
type scoreRecomputer interface {
	RecomputeAll(ctx context.Context) error
	RecomputeLeague(ctx context.Context, leagueID string) error
}
