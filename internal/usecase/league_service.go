package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/cache"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/id"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
)

const (
	leagueJoinCodeLength   = 6
	leagueJoinCodeAttempts = 5
	leagueDefaultMaxSize   = 12
	leagueMaxSizeCeiling   = 50
)

// LeagueService manages league lifecycle and the cached leaderboard reads.
type LeagueService struct {
	leagueRepo league.Repository
	idGen      id.Generator
	cache      *cache.Store
	seasonNum  int
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	idGen id.Generator,
	seasonNum int,
	logger *logging.Logger,
) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		leagueRepo: leagueRepo,
		idGen:      idGen,
		seasonNum:  seasonNum,
		logger:     logger,
		now:        time.Now,
	}
}

// SetCache enables standings caching.
func (s *LeagueService) SetCache(store *cache.Store) {
	s.cache = store
}

type CreateLeagueInput struct {
	OwnerID          string
	OwnerDisplayName string
	OwnerTribeColor  string
	Name             string
	MaxPlayers       int
}

func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.OwnerDisplayName = strings.TrimSpace(input.OwnerDisplayName)
	input.Name = strings.TrimSpace(input.Name)
	if input.OwnerID == "" {
		return league.League{}, fmt.Errorf("%w: owner_id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if input.OwnerDisplayName == "" {
		input.OwnerDisplayName = input.OwnerID
	}
	if input.MaxPlayers == 0 {
		input.MaxPlayers = leagueDefaultMaxSize
	}
	if input.MaxPlayers < 2 || input.MaxPlayers > leagueMaxSizeCeiling {
		return league.League{}, fmt.Errorf("%w: max_players must be between 2 and %d", ErrInvalidInput, leagueMaxSizeCeiling)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	joinCode, err := s.freshJoinCode(ctx)
	if err != nil {
		return league.League{}, err
	}

	now := s.now().UTC()
	item := league.League{
		ID:         leagueID,
		Name:       input.Name,
		Season:     s.seasonNum,
		OwnerID:    input.OwnerID,
		JoinCode:   joinCode,
		MaxPlayers: input.MaxPlayers,
		Members: []league.Member{
			{
				UserID:      input.OwnerID,
				DisplayName: input.OwnerDisplayName,
				TribeColor:  strings.TrimSpace(input.OwnerTribeColor),
				JoinedAt:    now,
			},
		},
		Status:    league.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.ValidateBasic(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.leagueRepo.Upsert(ctx, item); err != nil {
		return league.League{}, fmt.Errorf("store league: %w", err)
	}

	return item, nil
}

type JoinLeagueInput struct {
	UserID      string
	DisplayName string
	TribeColor  string
	JoinCode    string
}

func (s *LeagueService) Join(ctx context.Context, input JoinLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.JoinCode = strings.ToUpper(strings.TrimSpace(input.JoinCode))
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.JoinCode == "" {
		return league.League{}, fmt.Errorf("%w: join_code is required", ErrInvalidInput)
	}
	if input.DisplayName == "" {
		input.DisplayName = input.UserID
	}

	item, exists, err := s.leagueRepo.GetByJoinCode(ctx, input.JoinCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by join code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: no league for join code", ErrNotFound)
	}
	if item.Status != league.StatusActive {
		return league.League{}, fmt.Errorf("%w: league is not accepting members", ErrConflict)
	}
	if item.HasMember(input.UserID) {
		return league.League{}, fmt.Errorf("%w: user already joined league %s", ErrConflict, item.ID)
	}
	if len(item.Members) >= item.MaxPlayers {
		return league.League{}, fmt.Errorf("%w: league %s is full", ErrConflict, item.ID)
	}

	item.Members = append(item.Members, league.Member{
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		TribeColor:  strings.TrimSpace(input.TribeColor),
		JoinedAt:    s.now().UTC(),
	})
	item.UpdatedAt = s.now().UTC()

	if err := s.leagueRepo.Upsert(ctx, item); err != nil {
		return league.League{}, fmt.Errorf("store league member: %w", err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, standingsCacheKey(item.ID))
	}

	return item, nil
}

func (s *LeagueService) Get(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Get")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league_id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func (s *LeagueService) ListActive(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListActive")
	defer span.End()

	leagues, err := s.leagueRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active leagues: %w", err)
	}
	return leagues, nil
}

// Standings returns the ranked leaderboard, served from cache when enabled.
func (s *LeagueService) Standings(ctx context.Context, leagueID string) ([]league.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Standings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league_id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		item, err := s.Get(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return league.Standings(item.Members), nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return out.([]league.Standing), nil
	}

	out, err := s.cache.GetOrLoad(ctx, standingsCacheKey(leagueID), load)
	if err != nil {
		return nil, err
	}

	standings, ok := out.([]league.Standing)
	if !ok {
		return nil, fmt.Errorf("unexpected standings cache payload for league %s", leagueID)
	}
	return standings, nil
}

// freshJoinCode draws codes until one is unused. Collisions on a 36^6 space
// are rare; bailing after a few draws surfaces a broken RNG instead of
// looping.
func (s *LeagueService) freshJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < leagueJoinCodeAttempts; attempt++ {
		code, err := id.NewJoinCode(leagueJoinCodeLength)
		if err != nil {
			return "", fmt.Errorf("generate join code: %w", err)
		}

		_, exists, err := s.leagueRepo.GetByJoinCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check join code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find an unused join code after %d attempts", leagueJoinCodeAttempts)
}
