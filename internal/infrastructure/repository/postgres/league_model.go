package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
)

type leagueTableModel struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Season     int       `db:"season"`
	OwnerID    string    `db:"owner_id"`
	JoinCode   string    `db:"join_code"`
	MaxPlayers int       `db:"max_players"`
	Members    []byte    `db:"members"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type leagueMemberDoc struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	TribeColor  string    `json:"tribeColor,omitempty"`
	Points      int       `json:"points"`
	JoinedAt    time.Time `json:"joinedAt"`
}

func encodeLeagueMembers(members []league.Member) ([]byte, error) {
	docs := make([]leagueMemberDoc, 0, len(members))
	for _, m := range members {
		docs = append(docs, leagueMemberDoc{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			TribeColor:  m.TribeColor,
			Points:      m.Points,
			JoinedAt:    m.JoinedAt,
		})
	}
	return sonic.Marshal(docs)
}

func decodeLeagueMembers(raw []byte) ([]league.Member, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []leagueMemberDoc
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode league members document: %w", err)
	}

	out := make([]league.Member, 0, len(docs))
	for _, doc := range docs {
		out = append(out, league.Member{
			UserID:      doc.UserID,
			DisplayName: doc.DisplayName,
			TribeColor:  doc.TribeColor,
			Points:      doc.Points,
			JoinedAt:    doc.JoinedAt,
		})
	}
	return out, nil
}

func (m leagueTableModel) toDomain() (league.League, error) {
	members, err := decodeLeagueMembers(m.Members)
	if err != nil {
		return league.League{}, err
	}
	return league.League{
		ID:         m.ID,
		Name:       m.Name,
		Season:     m.Season,
		OwnerID:    m.OwnerID,
		JoinCode:   m.JoinCode,
		MaxPlayers: m.MaxPlayers,
		Members:    members,
		Status:     league.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}
