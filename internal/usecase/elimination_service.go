package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
)

const cascadeMaxGoroutines = 8

// EliminationService maintains the eliminated-castaway registry and cascades
// each change onto every roster holding the castaway.
type EliminationService struct {
	eliminationRepo elimination.Repository
	castawayRepo    castaway.Repository
	leagueRepo      league.Repository
	rosterRepo      roster.Repository
	recomputer      scoreRecomputer
	notifier        ScoreNotifier
	scopeMode       elimination.ScopeMode
	seasonNum       int
	logger          *logging.Logger
	now             func() time.Time
}

func NewEliminationService(
	eliminationRepo elimination.Repository,
	castawayRepo castaway.Repository,
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	scopeMode elimination.ScopeMode,
	seasonNum int,
	logger *logging.Logger,
) *EliminationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EliminationService{
		eliminationRepo: eliminationRepo,
		castawayRepo:    castawayRepo,
		leagueRepo:      leagueRepo,
		rosterRepo:      rosterRepo,
		scopeMode:       scopeMode,
		seasonNum:       seasonNum,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *EliminationService) SetRecomputer(recomputer scoreRecomputer) {
	s.recomputer = recomputer
}

func (s *EliminationService) SetNotifier(notifier ScoreNotifier) {
	s.notifier = notifier
}

type MarkEliminatedInput struct {
	// LeagueID is required only under per-league scope.
	LeagueID   string
	CastawayID string
	Week       int
}

// MarkEliminated records the elimination and cascades it onto every roster
// holding the castaway. The entry's contribution window closes after the
// elimination week: the episode they were voted out in still counts, so the
// drop week lands one past it.
func (s *EliminationService) MarkEliminated(ctx context.Context, input MarkEliminatedInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EliminationService.MarkEliminated")
	defer span.End()

	input.CastawayID = strings.TrimSpace(input.CastawayID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.CastawayID == "" {
		return fmt.Errorf("%w: castaway_id is required", ErrInvalidInput)
	}
	if input.Week < 1 {
		return fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}
	if err := s.requireCastaway(ctx, input.CastawayID); err != nil {
		return err
	}

	scope, err := s.resolveScope(ctx, input.LeagueID)
	if err != nil {
		return err
	}

	record := elimination.Record{
		Scope:        scope,
		CastawayID:   input.CastawayID,
		Week:         input.Week,
		EliminatedAt: s.now().UTC(),
	}
	if err := s.eliminationRepo.Mark(ctx, record); err != nil {
		return fmt.Errorf("mark eliminated: %w", err)
	}

	s.cascade(ctx, scope, input.CastawayID, func(entry *roster.Entry) {
		if entry.Status == roster.StatusActive {
			dropWeek := input.Week + 1
			entry.DroppedWeek = &dropWeek
		}
		// A previously dropped entry keeps its earlier drop week; the status
		// still flips so the castaway can never be re-added.
		entry.Status = roster.StatusEliminated
	})

	s.recompute(ctx, input.LeagueID)
	s.notify(ctx, input.Week, "castaway_eliminated")

	return nil
}

type UnmarkEliminatedInput struct {
	LeagueID   string
	CastawayID string
}

// UnmarkEliminated reverses an erroneous elimination. Only entries whose drop
// week was set by the elimination itself reopen; an entry the player had
// already dropped stays dropped.
func (s *EliminationService) UnmarkEliminated(ctx context.Context, input UnmarkEliminatedInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EliminationService.UnmarkEliminated")
	defer span.End()

	input.CastawayID = strings.TrimSpace(input.CastawayID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.CastawayID == "" {
		return fmt.Errorf("%w: castaway_id is required", ErrInvalidInput)
	}

	scope, err := s.resolveScope(ctx, input.LeagueID)
	if err != nil {
		return err
	}

	records, err := s.eliminationRepo.ListEliminated(ctx, scope)
	if err != nil {
		return fmt.Errorf("list eliminated castaways: %w", err)
	}
	var record *elimination.Record
	for i := range records {
		if records[i].CastawayID == input.CastawayID {
			record = &records[i]
			break
		}
	}
	if record == nil {
		return fmt.Errorf("%w: castaway %s is not eliminated", ErrNotFound, input.CastawayID)
	}

	if err := s.eliminationRepo.Unmark(ctx, scope, input.CastawayID); err != nil {
		return fmt.Errorf("unmark eliminated: %w", err)
	}

	eliminationDropWeek := record.Week + 1
	s.cascade(ctx, scope, input.CastawayID, func(entry *roster.Entry) {
		if entry.Status != roster.StatusEliminated {
			return
		}
		if entry.DroppedWeek != nil && *entry.DroppedWeek == eliminationDropWeek {
			entry.Status = roster.StatusActive
			entry.DroppedWeek = nil
			return
		}
		entry.Status = roster.StatusDropped
	})

	s.recompute(ctx, input.LeagueID)
	s.notify(ctx, record.Week, "elimination_reversed")

	return nil
}

// ListEliminated returns the eliminated set for a league's scope in week
// order.
func (s *EliminationService) ListEliminated(ctx context.Context, leagueID string) ([]elimination.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EliminationService.ListEliminated")
	defer span.End()

	scope, err := s.resolveScope(ctx, strings.TrimSpace(leagueID))
	if err != nil {
		return nil, err
	}

	records, err := s.eliminationRepo.ListEliminated(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list eliminated castaways: %w", err)
	}
	return records, nil
}

// cascade applies mutate to the castaway's entry on every affected timeline,
// fanned out over a bounded pool. Individual timeline failures are logged and
// skipped so one stuck roster cannot block the registry update.
func (s *EliminationService) cascade(ctx context.Context, scope elimination.Scope, castawayID string, mutate func(*roster.Entry)) {
	timelines, err := s.rosterRepo.ListByCastaway(ctx, castawayID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list rosters for elimination cascade failed",
			"castaway_id", castawayID, "error", err)
		return
	}

	p := pool.New().WithErrors().WithMaxGoroutines(cascadeMaxGoroutines)
	for _, timeline := range timelines {
		if scope.LeagueID != "" && timeline.LeagueID != scope.LeagueID {
			continue
		}
		timeline := timeline
		p.Go(func() error {
			if err := s.mutateTimeline(ctx, timeline, castawayID, mutate); err != nil {
				return fmt.Errorf("league=%s user=%s: %w", timeline.LeagueID, timeline.UserID, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "elimination cascade partially failed",
			"castaway_id", castawayID, "error", err)
	}
}

func (s *EliminationService) mutateTimeline(ctx context.Context, timeline roster.Timeline, castawayID string, mutate func(*roster.Entry)) error {
	for attempt := 0; ; attempt++ {
		for i := range timeline.Entries {
			if timeline.Entries[i].CastawayID == castawayID {
				mutate(&timeline.Entries[i])
			}
		}
		timeline.UpdatedAt = s.now().UTC()

		err := s.rosterRepo.Upsert(ctx, timeline)
		if err == nil {
			return nil
		}
		if !errors.Is(err, roster.ErrVersionConflict) || attempt >= rosterUpsertMaxRetries {
			return fmt.Errorf("store cascaded roster: %w", err)
		}

		fresh, exists, getErr := s.rosterRepo.Get(ctx, timeline.LeagueID, timeline.UserID)
		if getErr != nil {
			return fmt.Errorf("reload roster after version conflict: %w", getErr)
		}
		if !exists {
			return fmt.Errorf("%w: roster league=%s user=%s", ErrNotFound, timeline.LeagueID, timeline.UserID)
		}
		timeline = fresh
	}
}

func (s *EliminationService) resolveScope(ctx context.Context, leagueID string) (elimination.Scope, error) {
	if s.scopeMode == elimination.ScopeModeLeague {
		if leagueID == "" {
			return elimination.Scope{}, fmt.Errorf("%w: league_id is required under per-league elimination scope", ErrInvalidInput)
		}
		_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return elimination.Scope{}, fmt.Errorf("get league by id: %w", err)
		}
		if !exists {
			return elimination.Scope{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
	}
	return elimination.ScopeFor(s.scopeMode, leagueID, s.seasonNum), nil
}

func (s *EliminationService) requireCastaway(ctx context.Context, castawayID string) error {
	member, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return fmt.Errorf("get castaway %s: %w", castawayID, err)
	}
	if !exists || member.Season != s.seasonNum {
		return fmt.Errorf("%w: unknown castaway %s for season %d", ErrInvalidInput, castawayID, s.seasonNum)
	}
	return nil
}

func (s *EliminationService) recompute(ctx context.Context, leagueID string) {
	if s.recomputer == nil {
		return
	}

	var err error
	if s.scopeMode == elimination.ScopeModeLeague && leagueID != "" {
		err = s.recomputer.RecomputeLeague(ctx, leagueID)
	} else {
		err = s.recomputer.RecomputeAll(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "recompute after elimination change failed",
			"league_id", leagueID, "error", err)
	}
}

func (s *EliminationService) notify(ctx context.Context, week int, reason string) {
	if s.notifier == nil {
		return
	}

	evt := ScoresUpdatedEvent{
		Season:     s.seasonNum,
		Episode:    week,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.PublishScoresUpdated(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish elimination event failed", "reason", reason, "error", err)
	}
}
