package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
)

// ScoringService owns the episode event ledger: admin ingestion of per-episode
// events and the derived per-castaway score reads.
type ScoringService struct {
	episodeRepo  episode.Repository
	castawayRepo castaway.Repository
	catalog      event.Catalog
	recomputer   scoreRecomputer
	notifier     ScoreNotifier
	logger       *logging.Logger
	now          func() time.Time
}

func NewScoringService(
	episodeRepo episode.Repository,
	castawayRepo castaway.Repository,
	catalog event.Catalog,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		episodeRepo:  episodeRepo,
		castawayRepo: castawayRepo,
		catalog:      catalog,
		logger:       logger,
		now:          time.Now,
	}
}

// SetRecomputer wires the post-ingestion sweep. Optional to break the
// construction cycle between scoring and recompute.
func (s *ScoringService) SetRecomputer(recomputer scoreRecomputer) {
	s.recomputer = recomputer
}

func (s *ScoringService) SetNotifier(notifier ScoreNotifier) {
	s.notifier = notifier
}

type SetEpisodeEventsInput struct {
	Season  int
	Episode int
	AirDate time.Time
	Events  map[string][]event.Event
}

// SetEpisodeEvents replaces the ledger document for one episode wholesale and
// sweeps every league's derived totals. Replaying the same payload is
// idempotent.
func (s *ScoringService) SetEpisodeEvents(ctx context.Context, input SetEpisodeEventsInput) (episode.Ledger, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.SetEpisodeEvents")
	defer span.End()

	if input.Season < 1 {
		return episode.Ledger{}, fmt.Errorf("%w: season must be >= 1", ErrInvalidInput)
	}
	if input.Episode < 1 {
		return episode.Ledger{}, fmt.Errorf("%w: episode must be >= 1", ErrInvalidInput)
	}

	events := make(map[string][]event.Event, len(input.Events))
	for castawayID, items := range input.Events {
		castawayID = strings.TrimSpace(castawayID)
		if castawayID == "" {
			return episode.Ledger{}, fmt.Errorf("%w: castaway id cannot be empty", ErrInvalidInput)
		}

		member, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
		if err != nil {
			return episode.Ledger{}, fmt.Errorf("get castaway %s: %w", castawayID, err)
		}
		if !exists || member.Season != input.Season {
			return episode.Ledger{}, fmt.Errorf("%w: unknown castaway %s for season %d", ErrInvalidInput, castawayID, input.Season)
		}

		for _, item := range items {
			if !s.catalog.Known(item.Kind) {
				return episode.Ledger{}, fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, item.Kind)
			}
			if item.Count < 1 {
				return episode.Ledger{}, fmt.Errorf("%w: event count must be >= 1 for kind %q", ErrInvalidInput, item.Kind)
			}
		}
		events[castawayID] = append([]event.Event(nil), items...)
	}

	ledger := episode.Ledger{
		Season:    input.Season,
		Episode:   input.Episode,
		AirDate:   input.AirDate,
		Events:    events,
		UpdatedAt: s.now().UTC(),
	}

	if err := s.episodeRepo.Upsert(ctx, ledger); err != nil {
		return episode.Ledger{}, fmt.Errorf("upsert episode ledger: %w", err)
	}

	if s.recomputer != nil {
		if err := s.recomputer.RecomputeAll(ctx); err != nil {
			s.logger.WarnContext(ctx, "recompute after episode ingest failed",
				"season", input.Season, "episode", input.Episode, "error", err)
		}
	}
	s.notifyScoresUpdated(ctx, input.Season, input.Episode, "episode_events_replaced")

	return ledger, nil
}

// EpisodeLedger returns the stored ledger for one episode.
func (s *ScoringService) EpisodeLedger(ctx context.Context, seasonNum, episodeNum int) (episode.Ledger, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EpisodeLedger")
	defer span.End()

	ledger, exists, err := s.episodeRepo.Get(ctx, seasonNum, episodeNum)
	if err != nil {
		return episode.Ledger{}, fmt.Errorf("get episode ledger: %w", err)
	}
	if !exists {
		return episode.Ledger{}, fmt.Errorf("%w: season=%d episode=%d", ErrNotFound, seasonNum, episodeNum)
	}

	return ledger, nil
}

// EpisodeScores flattens one episode's ledger into castawayID -> points.
func (s *ScoringService) EpisodeScores(ctx context.Context, seasonNum, episodeNum int) (map[string]int, error) {
	ledger, err := s.EpisodeLedger(ctx, seasonNum, episodeNum)
	if err != nil {
		return nil, err
	}

	return ledger.Scores(s.catalog), nil
}

// SeasonScores returns the episode-indexed score maps the attribution
// calculator consumes.
func (s *ScoringService) SeasonScores(ctx context.Context, seasonNum int) (map[int]map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.SeasonScores")
	defer span.End()

	ledgers, err := s.episodeRepo.ListBySeason(ctx, seasonNum)
	if err != nil {
		return nil, fmt.Errorf("list episode ledgers: %w", err)
	}

	out := make(map[int]map[string]int, len(ledgers))
	for _, ledger := range ledgers {
		out[ledger.Episode] = ledger.Scores(s.catalog)
	}
	return out, nil
}

// CastawaySeasonPoints sums a castaway's points across every recorded episode.
func (s *ScoringService) CastawaySeasonPoints(ctx context.Context, seasonNum int, castawayID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CastawaySeasonPoints")
	defer span.End()

	castawayID = strings.TrimSpace(castawayID)
	if castawayID == "" {
		return 0, fmt.Errorf("%w: castaway id is required", ErrInvalidInput)
	}

	_, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return 0, fmt.Errorf("get castaway %s: %w", castawayID, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: castaway=%s", ErrNotFound, castawayID)
	}

	ledgers, err := s.episodeRepo.ListBySeason(ctx, seasonNum)
	if err != nil {
		return 0, fmt.Errorf("list episode ledgers: %w", err)
	}

	total := 0
	for _, ledger := range ledgers {
		total += ledger.PointsForCastaway(castawayID, s.catalog)
	}
	return total, nil
}

// CatalogEntry is one displayable row of the scoring catalog.
type CatalogEntry struct {
	Kind   event.Kind
	Label  string
	Points int
}

// CatalogEntries lists the active catalog in stable display order.
func (s *ScoringService) CatalogEntries() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(event.AllKinds))
	for _, kind := range event.AllKinds {
		if !s.catalog.Known(kind) {
			continue
		}
		out = append(out, CatalogEntry{
			Kind:   kind,
			Label:  event.Label(kind),
			Points: s.catalog.Value(kind),
		})
	}
	return out
}

func (s *ScoringService) notifyScoresUpdated(ctx context.Context, seasonNum, episodeNum int, reason string) {
	if s.notifier == nil {
		return
	}

	evt := ScoresUpdatedEvent{
		Season:     seasonNum,
		Episode:    episodeNum,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.PublishScoresUpdated(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish scores updated event failed",
			"season", seasonNum, "episode", episodeNum, "reason", reason, "error", err)
	}
}
