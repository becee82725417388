package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/season"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
)

// RosterService enforces the draft and weekly-change policy over roster
// timelines. The fantasy week is always derived from the clock at call time;
// nothing here trusts a client-supplied week.
type RosterService struct {
	rosterRepo      roster.Repository
	leagueRepo      league.Repository
	castawayRepo    castaway.Repository
	eliminationRepo elimination.Repository
	rules           roster.Rules
	clock           season.Clock
	scopeMode       elimination.ScopeMode
	seasonNum       int
	logger          *logging.Logger
	now             func() time.Time
}

func NewRosterService(
	rosterRepo roster.Repository,
	leagueRepo league.Repository,
	castawayRepo castaway.Repository,
	eliminationRepo elimination.Repository,
	rules roster.Rules,
	clock season.Clock,
	scopeMode elimination.ScopeMode,
	seasonNum int,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		rosterRepo:      rosterRepo,
		leagueRepo:      leagueRepo,
		castawayRepo:    castawayRepo,
		eliminationRepo: eliminationRepo,
		rules:           rules,
		clock:           clock,
		scopeMode:       scopeMode,
		seasonNum:       seasonNum,
		logger:          logger,
		now:             time.Now,
	}
}

type DraftRosterInput struct {
	UserID      string
	LeagueID    string
	CastawayIDs []string
}

// DraftRoster commits the initial week-0 roster. Redrafting before the first
// lock replaces the previous draft; after the premiere the draft window is
// closed for good.
func (s *RosterService) DraftRoster(ctx context.Context, input DraftRosterInput) (roster.Timeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DraftRoster")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" || input.LeagueID == "" {
		return roster.Timeline{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, input.LeagueID, input.UserID); err != nil {
		return roster.Timeline{}, err
	}

	week := s.clock.CurrentWeek(s.now())
	if week != 0 {
		return roster.Timeline{}, fmt.Errorf("%w: draft window closed at the first roster lock", ErrInvalidInput)
	}

	castawayIDs, err := normalizeCastawayIDs(input.CastawayIDs)
	if err != nil {
		return roster.Timeline{}, err
	}
	for _, id := range castawayIDs {
		if err := s.requireCastaway(ctx, id); err != nil {
			return roster.Timeline{}, err
		}
	}

	eliminated, err := s.eliminatedSet(ctx, input.LeagueID)
	if err != nil {
		return roster.Timeline{}, err
	}
	if err := roster.ValidateDraft(castawayIDs, s.rules, eliminated); err != nil {
		return roster.Timeline{}, err
	}

	timeline, exists, err := s.rosterRepo.Get(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return roster.Timeline{}, fmt.Errorf("get roster timeline: %w", err)
	}
	if !exists {
		timeline = roster.Timeline{LeagueID: input.LeagueID, UserID: input.UserID}
	}

	entries := make([]roster.Entry, 0, len(castawayIDs))
	for _, id := range castawayIDs {
		entries = append(entries, roster.Entry{
			CastawayID: id,
			Status:     roster.StatusActive,
			AddedWeek:  0,
		})
	}

	timeline.Commit(0, entries)
	timeline.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Upsert(ctx, timeline); err != nil {
		return roster.Timeline{}, fmt.Errorf("store drafted roster: %w", err)
	}

	return s.mustReload(ctx, input.LeagueID, input.UserID)
}

type AddDropInput struct {
	UserID         string
	LeagueID       string
	DropCastawayID string
	AddCastawayID  string
}

// AddDrop applies one roster transaction at the current week, enforcing the
// weekly net-change cap against the previous week's committed snapshot so the
// cap is cumulative across a week, not per request.
func (s *RosterService) AddDrop(ctx context.Context, input AddDropInput) (roster.Timeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddDrop")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.DropCastawayID = strings.TrimSpace(input.DropCastawayID)
	input.AddCastawayID = strings.TrimSpace(input.AddCastawayID)
	if input.UserID == "" || input.LeagueID == "" {
		return roster.Timeline{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if input.DropCastawayID == "" && input.AddCastawayID == "" {
		return roster.Timeline{}, fmt.Errorf("%w: provide a castaway to add or drop", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, input.LeagueID, input.UserID); err != nil {
		return roster.Timeline{}, err
	}

	week := s.clock.CurrentWeek(s.now())
	if week < 1 {
		return roster.Timeline{}, fmt.Errorf("%w: roster changes open after the premiere", ErrInvalidInput)
	}

	timeline, exists, err := s.rosterRepo.Get(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return roster.Timeline{}, fmt.Errorf("get roster timeline: %w", err)
	}
	if !exists {
		return roster.Timeline{}, fmt.Errorf("%w: roster league=%s user=%s", ErrNotFound, input.LeagueID, input.UserID)
	}

	if input.AddCastawayID != "" {
		if err := s.requireCastaway(ctx, input.AddCastawayID); err != nil {
			return roster.Timeline{}, err
		}
		scope := elimination.ScopeFor(s.scopeMode, input.LeagueID, s.seasonNum)
		out, err := s.eliminationRepo.IsEliminated(ctx, scope, input.AddCastawayID)
		if err != nil {
			return roster.Timeline{}, fmt.Errorf("check elimination: %w", err)
		}
		if out {
			return roster.Timeline{}, fmt.Errorf("%w: %s", roster.ErrCastawayEliminated, input.AddCastawayID)
		}
	}

	proposed, err := roster.ApplyAddDrop(timeline.Entries, input.DropCastawayID, input.AddCastawayID, week)
	if err != nil {
		return roster.Timeline{}, err
	}

	prev := s.baselineSnapshot(timeline, week)
	if err := roster.ValidateChange(prev, proposed, s.rules); err != nil {
		return roster.Timeline{}, err
	}

	timeline.Commit(week, proposed)
	timeline.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Upsert(ctx, timeline); err != nil {
		return roster.Timeline{}, fmt.Errorf("store roster change: %w", err)
	}

	return s.mustReload(ctx, input.LeagueID, input.UserID)
}

// ResetToPreviousWeek discards every change made in the current week and
// restores the last committed weekly snapshot.
func (s *RosterService) ResetToPreviousWeek(ctx context.Context, userID, leagueID string) (roster.Timeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ResetToPreviousWeek")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return roster.Timeline{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, leagueID, userID); err != nil {
		return roster.Timeline{}, err
	}

	week := s.clock.CurrentWeek(s.now())
	if week < 1 {
		return roster.Timeline{}, fmt.Errorf("%w: nothing to reset before the premiere", ErrInvalidInput)
	}

	timeline, exists, err := s.rosterRepo.Get(ctx, leagueID, userID)
	if err != nil {
		return roster.Timeline{}, fmt.Errorf("get roster timeline: %w", err)
	}
	if !exists {
		return roster.Timeline{}, fmt.Errorf("%w: roster league=%s user=%s", ErrNotFound, leagueID, userID)
	}

	prev := s.baselineSnapshot(timeline, week)
	if prev == nil {
		return roster.Timeline{}, fmt.Errorf("%w: week=%d", roster.ErrNoSnapshotForWeek, week-1)
	}

	scope := elimination.ScopeFor(s.scopeMode, leagueID, s.seasonNum)
	records, err := s.eliminationRepo.ListEliminated(ctx, scope)
	if err != nil {
		return roster.Timeline{}, fmt.Errorf("list eliminated castaways: %w", err)
	}
	prev = reapplyEliminations(prev, records)

	if sameActiveSet(prev, timeline.Entries) {
		return roster.Timeline{}, fmt.Errorf("%w: roster already matches the previous week", ErrInvalidInput)
	}

	timeline.Commit(week, prev)
	timeline.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Upsert(ctx, timeline); err != nil {
		return roster.Timeline{}, fmt.Errorf("store roster reset: %w", err)
	}

	return s.mustReload(ctx, leagueID, userID)
}

// CurrentRoster returns the live timeline with the most recent derived
// points.
func (s *RosterService) CurrentRoster(ctx context.Context, userID, leagueID string) (roster.Timeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CurrentRoster")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return roster.Timeline{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	timeline, exists, err := s.rosterRepo.Get(ctx, leagueID, userID)
	if err != nil {
		return roster.Timeline{}, fmt.Errorf("get roster timeline: %w", err)
	}
	if !exists {
		return roster.Timeline{}, fmt.Errorf("%w: roster league=%s user=%s", ErrNotFound, leagueID, userID)
	}

	return timeline, nil
}

// SnapshotForWeek returns the committed roster for a past week.
func (s *RosterService) SnapshotForWeek(ctx context.Context, userID, leagueID string, week int) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SnapshotForWeek")
	defer span.End()

	if week < 0 {
		return nil, fmt.Errorf("%w: week must be >= 0", ErrInvalidInput)
	}

	timeline, err := s.CurrentRoster(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}

	entries, ok := timeline.Snapshot(week)
	if !ok {
		return nil, fmt.Errorf("%w: week=%d", roster.ErrNoSnapshotForWeek, week)
	}

	return entries, nil
}

// SeasonCast lists the full cast for the configured season, eliminated or
// not.
func (s *RosterService) SeasonCast(ctx context.Context) ([]castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SeasonCast")
	defer span.End()

	cast, err := s.castawayRepo.ListBySeason(ctx, s.seasonNum)
	if err != nil {
		return nil, fmt.Errorf("list castaways: %w", err)
	}
	return cast, nil
}

// AvailableCastaways lists the season cast still in the game for a league.
// With a userID, castaways active on that user's roster are excluded too;
// dropped entries stay listed so they can be re-added.
func (s *RosterService) AvailableCastaways(ctx context.Context, leagueID, userID string) ([]castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AvailableCastaways")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league_id is required", ErrInvalidInput)
	}

	cast, err := s.castawayRepo.ListBySeason(ctx, s.seasonNum)
	if err != nil {
		return nil, fmt.Errorf("list castaways: %w", err)
	}

	eliminated, err := s.eliminatedSet(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	rostered := map[string]struct{}{}
	if userID != "" {
		timeline, exists, err := s.rosterRepo.Get(ctx, leagueID, userID)
		if err != nil {
			return nil, fmt.Errorf("get roster timeline: %w", err)
		}
		if exists {
			rostered = roster.ActiveIDs(timeline.Entries)
		}
	}

	out := make([]castaway.Castaway, 0, len(cast))
	for _, member := range cast {
		if _, gone := eliminated[member.ID]; gone {
			continue
		}
		if _, taken := rostered[member.ID]; taken {
			continue
		}
		out = append(out, member)
	}
	return out, nil
}

// baselineSnapshot finds the most recent committed snapshot strictly before
// week. Weeks without roster activity leave no snapshot, so the search walks
// back to the draft.
func (s *RosterService) baselineSnapshot(timeline roster.Timeline, week int) []roster.Entry {
	for w := week - 1; w >= 0; w-- {
		if entries, ok := timeline.Snapshot(w); ok {
			return entries
		}
	}
	return nil
}

func (s *RosterService) requireMembership(ctx context.Context, leagueID, userID string) error {
	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !item.HasMember(userID) {
		return fmt.Errorf("%w: user %s is not a member of league %s", ErrUnauthorized, userID, leagueID)
	}
	return nil
}

func (s *RosterService) requireCastaway(ctx context.Context, castawayID string) error {
	member, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return fmt.Errorf("get castaway %s: %w", castawayID, err)
	}
	if !exists || member.Season != s.seasonNum {
		return fmt.Errorf("%w: unknown castaway %s for season %d", ErrInvalidInput, castawayID, s.seasonNum)
	}
	return nil
}

func (s *RosterService) eliminatedSet(ctx context.Context, leagueID string) (map[string]struct{}, error) {
	scope := elimination.ScopeFor(s.scopeMode, leagueID, s.seasonNum)
	records, err := s.eliminationRepo.ListEliminated(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list eliminated castaways: %w", err)
	}

	out := make(map[string]struct{}, len(records))
	for _, record := range records {
		out[record.CastawayID] = struct{}{}
	}
	return out, nil
}

// mustReload returns the stored timeline after a successful write so callers
// see the post-increment version.
func (s *RosterService) mustReload(ctx context.Context, leagueID, userID string) (roster.Timeline, error) {
	timeline, exists, err := s.rosterRepo.Get(ctx, leagueID, userID)
	if err != nil {
		return roster.Timeline{}, fmt.Errorf("reload roster timeline: %w", err)
	}
	if !exists {
		return roster.Timeline{}, fmt.Errorf("%w: roster league=%s user=%s", ErrNotFound, leagueID, userID)
	}
	return timeline, nil
}

func normalizeCastawayIDs(ids []string) ([]string, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: castaway id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, id)
	}
	return cleaned, nil
}

// reapplyEliminations re-marks eliminated castaways on a restored snapshot.
// A reset discards the player's changes, never an elimination: a snapshot
// taken before the elimination would otherwise flip the castaway back to
// active and resume point accrual.
func reapplyEliminations(entries []roster.Entry, records []elimination.Record) []roster.Entry {
	if len(records) == 0 {
		return entries
	}

	byID := make(map[string]elimination.Record, len(records))
	for _, record := range records {
		byID[record.CastawayID] = record
	}
	for i := range entries {
		record, gone := byID[entries[i].CastawayID]
		if !gone {
			continue
		}
		if entries[i].Status == roster.StatusActive {
			dropWeek := record.Week + 1
			entries[i].DroppedWeek = &dropWeek
		}
		entries[i].Status = roster.StatusEliminated
	}
	return entries
}

func sameActiveSet(a, b []roster.Entry) bool {
	activeA := roster.ActiveIDs(a)
	activeB := roster.ActiveIDs(b)
	if len(activeA) != len(activeB) {
		return false
	}
	for id := range activeA {
		if _, ok := activeB[id]; !ok {
			return false
		}
	}
	return true
}
