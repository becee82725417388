package memory

import (
	"fmt"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
)

const (
	SeedSeasonNumber = 50
	LeagueIDFounders = "league-founders"
)

// SeedCastaways returns a 20-person placeholder cast for the configured
// season, split across three starting tribes. Real cast data arrives through
// the admin ingestion route once the lineup is announced.
func SeedCastaways() []castaway.Castaway {
	tribes := []string{"Kalo", "Ratu", "Siga"}

	out := make([]castaway.Castaway, 0, 20)
	for i := 1; i <= 20; i++ {
		out = append(out, castaway.Castaway{
			ID:     fmt.Sprintf("castaway-%02d", i),
			Name:   fmt.Sprintf("Castaway %d", i),
			Season: SeedSeasonNumber,
			Tribe:  tribes[(i-1)%len(tribes)],
		})
	}
	return out
}

// SeedLeagues returns one joinable league so a fresh in-memory deployment is
// playable without any setup calls.
func SeedLeagues() []league.League {
	createdAt := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	return []league.League{
		{
			ID:         LeagueIDFounders,
			Name:       "Founders League",
			Season:     SeedSeasonNumber,
			OwnerID:    "user-owner",
			JoinCode:   "SURV50",
			MaxPlayers: 12,
			Members: []league.Member{
				{
					UserID:      "user-owner",
					DisplayName: "Commissioner",
					TribeColor:  "#7c3aed",
					JoinedAt:    createdAt,
				},
			},
			Status:    league.StatusActive,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
	}
}
