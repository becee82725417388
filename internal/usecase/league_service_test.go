package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/repository/memory"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/cache"
)

func newLeagueService(seed ...league.League) (*LeagueService, *memory.LeagueRepository) {
	leagueRepo := memory.NewLeagueRepository(seed...)
	service := NewLeagueService(leagueRepo, staticIDGenerator{id: "league-001"}, testSeason, nil)
	service.now = func() time.Time {
		return time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)
	}
	return service, leagueRepo
}

func TestLeagueService_CreateAndJoin(t *testing.T) {
	service, _ := newLeagueService()

	created, err := service.Create(t.Context(), CreateLeagueInput{
		OwnerID:          "user-a",
		OwnerDisplayName: "Alpha",
		OwnerTribeColor:  "#0ea5e9",
		Name:             "Torch Snuffers",
		MaxPlayers:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, "league-001", created.ID)
	assert.Equal(t, testSeason, created.Season)
	assert.Len(t, created.JoinCode, 6)
	require.Len(t, created.Members, 1)
	assert.Equal(t, "user-a", created.Members[0].UserID)

	joined, err := service.Join(t.Context(), JoinLeagueInput{
		UserID:      "user-b",
		DisplayName: "Bravo",
		JoinCode:    created.JoinCode,
	})
	require.NoError(t, err)
	require.Len(t, joined.Members, 2)
	assert.Equal(t, "user-b", joined.Members[1].UserID)
}

func TestLeagueService_Join_LowercasesAcceptedCode(t *testing.T) {
	service, _ := newLeagueService(memory.SeedLeagues()...)

	joined, err := service.Join(t.Context(), JoinLeagueInput{
		UserID:   "user-b",
		JoinCode: "surv50",
	})
	require.NoError(t, err)
	assert.Equal(t, memory.LeagueIDFounders, joined.ID)
}

func TestLeagueService_Join_Conflicts(t *testing.T) {
	service, _ := newLeagueService(memory.SeedLeagues()...)

	_, err := service.Join(t.Context(), JoinLeagueInput{UserID: "user-owner", JoinCode: "SURV50"})
	assert.ErrorIs(t, err, ErrConflict, "rejoining must conflict")

	_, err = service.Join(t.Context(), JoinLeagueInput{UserID: "user-x", JoinCode: "NOPE99"})
	assert.ErrorIs(t, err, ErrNotFound, "unknown code must be not found")
}

func TestLeagueService_Join_FullLeague(t *testing.T) {
	service, _ := newLeagueService()

	created, err := service.Create(t.Context(), CreateLeagueInput{
		OwnerID:    "user-a",
		Name:       "Tiny League",
		MaxPlayers: 2,
	})
	require.NoError(t, err)

	_, err = service.Join(t.Context(), JoinLeagueInput{UserID: "user-b", JoinCode: created.JoinCode})
	require.NoError(t, err)

	_, err = service.Join(t.Context(), JoinLeagueInput{UserID: "user-c", JoinCode: created.JoinCode})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLeagueService_Create_Validation(t *testing.T) {
	service, _ := newLeagueService()

	_, err := service.Create(t.Context(), CreateLeagueInput{OwnerID: "user-a"})
	assert.ErrorIs(t, err, ErrInvalidInput, "missing name")

	_, err = service.Create(t.Context(), CreateLeagueInput{OwnerID: "user-a", Name: "X", MaxPlayers: 1})
	assert.ErrorIs(t, err, ErrInvalidInput, "max players below 2")
}

func TestLeagueService_Standings_CachedUntilInvalidated(t *testing.T) {
	service, leagueRepo := newLeagueService(memory.SeedLeagues()...)
	service.SetCache(cache.NewStore(time.Minute))

	first, err := service.Standings(t.Context(), memory.LeagueIDFounders)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, first[0].Points)

	// A points write behind the cache is invisible until invalidation.
	require.NoError(t, leagueRepo.UpdateMemberPoints(context.Background(), memory.LeagueIDFounders, "user-owner", 42))

	cached, err := service.Standings(t.Context(), memory.LeagueIDFounders)
	require.NoError(t, err)
	assert.Equal(t, 0, cached[0].Points)

	// Joining invalidates, so the next read reflects the write.
	_, err = service.Join(t.Context(), JoinLeagueInput{UserID: "user-b", JoinCode: "SURV50"})
	require.NoError(t, err)

	fresh, err := service.Standings(t.Context(), memory.LeagueIDFounders)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "user-owner", fresh[0].UserID)
	assert.Equal(t, 42, fresh[0].Points)
	assert.Equal(t, 1, fresh[0].Rank)
	assert.Equal(t, 2, fresh[1].Rank)
}

func TestLeagueService_Standings_TieSharesRank(t *testing.T) {
	createdAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	service, _ := newLeagueService(league.League{
		ID:         "league-tie",
		Name:       "Tie League",
		Season:     testSeason,
		OwnerID:    "user-a",
		JoinCode:   "TIE123",
		MaxPlayers: 8,
		Members: []league.Member{
			{UserID: "user-a", DisplayName: "Alpha", Points: 10, JoinedAt: createdAt},
			{UserID: "user-b", DisplayName: "Bravo", Points: 10, JoinedAt: createdAt},
			{UserID: "user-c", DisplayName: "Charlie", Points: 4, JoinedAt: createdAt},
		},
		Status:    league.StatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})

	standings, err := service.Standings(t.Context(), "league-tie")
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 1, standings[1].Rank)
	assert.Equal(t, 2, standings[2].Rank)
}
