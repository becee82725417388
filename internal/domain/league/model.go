package league

import (
	"fmt"
	"sort"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Member is one tribe in a league: a user plus their display identity and the
// derived season point total. Points is attribution output, recomputed from
// the episode ledger, never the source of truth.
type Member struct {
	UserID      string
	DisplayName string
	TribeColor  string
	Points      int
	JoinedAt    time.Time
}

// League groups members competing against each other over one season.
type League struct {
	ID         string
	Name       string
	Season     int
	OwnerID    string
	JoinCode   string
	MaxPlayers int
	Members    []Member
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (l League) ValidateBasic() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if l.MaxPlayers <= 0 {
		return fmt.Errorf("max players must be greater than zero")
	}
	if l.JoinCode == "" {
		return fmt.Errorf("join code is required")
	}
	return nil
}

// HasMember reports whether userID already belongs to the league.
func (l League) HasMember(userID string) bool {
	for _, m := range l.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Standing is one row of the league leaderboard.
type Standing struct {
	Rank        int
	UserID      string
	DisplayName string
	Points      int
}

// Standings ranks members by points, equal totals sharing a rank and order
// broken by user ID for stable output.
func Standings(members []Member) []Standing {
	sorted := append([]Member(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	out := make([]Standing, 0, len(sorted))
	rank := 0
	lastPoints := 0
	for idx, m := range sorted {
		if idx == 0 || m.Points != lastPoints {
			rank++
			lastPoints = m.Points
		}
		out = append(out, Standing{
			Rank:        rank,
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Points:      m.Points,
		})
	}
	return out
}
